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

// Package plan assembles pipelines of operators from a declarative spec. Operators are built by factories
// registered under a type tag, each decoding its own strongly typed configuration.
package plan

import (
	"fmt"
	"strings"

	"github.com/imdario/mergo"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const (
	// EnvPrefix prefixes the environment variables overriding top level spec fields, e.g. SEGFLOW_PAGESIZE.
	EnvPrefix = "SEGFLOW"
)

// PipelineSpec describes a pipeline: the stores shared by its operators and the vertices wired by their inputs.
type PipelineSpec struct {
	Name string `mapstructure:"name"`
	// ChannelCapacity is the capacity of every stream, stream.DefaultCapacity when 0
	ChannelCapacity int `mapstructure:"channelCapacity"`
	// PageSize is the page size of every runtime, paging is disabled below 2
	PageSize int          `mapstructure:"pageSize"`
	Stores   []StoreSpec  `mapstructure:"stores"`
	Vertices []VertexSpec `mapstructure:"vertices"`
	// Defaults holds config entries per vertex type, used where a vertex config leaves them out
	Defaults map[string]map[string]any `mapstructure:"defaults"`
}

// StoreSpec declares a segmented store.
type StoreSpec struct {
	Name        string `mapstructure:"name"`
	HistorySize int    `mapstructure:"historySize"`
}

// VertexSpec declares an operator and the vertices feeding it, in port order.
type VertexSpec struct {
	Name   string         `mapstructure:"name"`
	Type   string         `mapstructure:"type"`
	Inputs []string       `mapstructure:"inputs"`
	Config map[string]any `mapstructure:"config"`
}

// config returns a copy of the config of v completed with the defaults of its type.
func (s *PipelineSpec) config(v VertexSpec) (map[string]any, error) {
	cfg := make(map[string]any, len(v.Config))
	for k, val := range v.Config {
		cfg[k] = val
	}
	if defaults, ok := s.Defaults[v.Type]; ok {
		if err := mergo.Merge(&cfg, defaults); err != nil {
			return nil, SpecErr{Vertex: v.Name, Message: fmt.Sprintf("failed to apply defaults, %s", err)}
		}
	}
	return cfg, nil
}

// LoadSpec reads a YAML pipeline spec from path.
func LoadSpec(path string) (*PipelineSpec, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{"name", "channelCapacity", "pageSize"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to load pipeline spec. %w", err)
	}
	spec := &PipelineSpec{}
	if err := v.Unmarshal(spec); err != nil {
		return nil, fmt.Errorf("failed unmarshal pipeline spec. %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// Validate checks names, references and acyclicity, reporting every problem found.
func (s *PipelineSpec) Validate() error {
	var errs error
	if s.Name == "" {
		errs = multierr.Append(errs, SpecErr{Message: "a name is required"})
	}
	if s.ChannelCapacity < 0 {
		errs = multierr.Append(errs, SpecErr{Message: fmt.Sprintf("channel capacity must not be negative, got %d", s.ChannelCapacity)})
	}
	if len(s.Vertices) == 0 {
		errs = multierr.Append(errs, SpecErr{Message: "no vertices"})
	}
	stores := make(map[string]bool, len(s.Stores))
	for _, st := range s.Stores {
		if st.Name == "" {
			errs = multierr.Append(errs, SpecErr{Message: "a store has no name"})
		} else if stores[st.Name] {
			errs = multierr.Append(errs, SpecErr{Message: fmt.Sprintf("duplicate store %q", st.Name)})
		}
		stores[st.Name] = true
	}
	vertices := make(map[string]bool, len(s.Vertices))
	for _, v := range s.Vertices {
		if v.Name == "" {
			errs = multierr.Append(errs, SpecErr{Message: "a vertex has no name"})
			continue
		}
		if vertices[v.Name] {
			errs = multierr.Append(errs, SpecErr{Vertex: v.Name, Message: "duplicate name"})
		}
		vertices[v.Name] = true
		if v.Type == "" {
			errs = multierr.Append(errs, SpecErr{Vertex: v.Name, Message: "a type is required"})
		}
	}
	for _, v := range s.Vertices {
		for _, in := range v.Inputs {
			if !vertices[in] {
				errs = multierr.Append(errs, SpecErr{Vertex: v.Name, Message: fmt.Sprintf("unknown input %q", in)})
			}
		}
	}
	if errs != nil {
		return errs
	}
	if _, err := s.order(); err != nil {
		return err
	}
	return nil
}

// order returns the vertices sorted so that every vertex comes after its inputs.
func (s *PipelineSpec) order() ([]VertexSpec, error) {
	indegree := make(map[string]int, len(s.Vertices))
	downstream := make(map[string][]string, len(s.Vertices))
	byName := make(map[string]VertexSpec, len(s.Vertices))
	for _, v := range s.Vertices {
		byName[v.Name] = v
		indegree[v.Name] += 0
		for _, in := range v.Inputs {
			indegree[v.Name]++
			downstream[in] = append(downstream[in], v.Name)
		}
	}
	var ready []string
	for _, v := range s.Vertices {
		if indegree[v.Name] == 0 {
			ready = append(ready, v.Name)
		}
	}
	sorted := make([]VertexSpec, 0, len(s.Vertices))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		sorted = append(sorted, byName[name])
		for _, d := range downstream[name] {
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}
	if len(sorted) != len(s.Vertices) {
		return nil, SpecErr{Message: "the vertices form a cycle"}
	}
	return sorted, nil
}
