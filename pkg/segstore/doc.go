/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
Package segstore implements segmented storage: named in-memory key-value stores partitioned by segment key, shared
by the operators writing per-segment state and the operators reading it once final.

A segment is open until every registered writer closed it (or signalled end of stream), then it is closed and
immutable. Readers wait for closure: GetSegmentReader blocks on a notification channel released by every close,
TryGetSegmentReader returns ErrNotReady so that operators can retry through their back-off instead.

Closed segments are retained in creation order up to the history size, older ones are evicted.

Writers must all be registered before the first segment is written, since the number of closes a segment waits
for is the number of writers known when it was created.
*/
package segstore
