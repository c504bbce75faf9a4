package expr

import (
	"fmt"
	"strconv"

	"github.com/Masterminds/sprig/v3"
	"github.com/antonmedv/expr"
	"github.com/goccy/go-json"
)

var sprigFuncMap = sprig.GenericFuncMap()

// EvalBool evaluates a boolean expression once against the given attribute values.
func EvalBool(expression string, values map[string]interface{}) (bool, error) {
	env := getFuncMap(values)
	result, err := expr.Eval(expression, env)
	if err != nil {
		return false, fmt.Errorf("unable to evaluate expression '%s': %s", expression, err)
	}
	resultBool, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("unable to cast expression result '%v' to bool", result)
	}
	return resultBool, nil
}

// getFuncMap returns the attribute values plus the helper functions available to every expression.
func getFuncMap(m map[string]interface{}) map[string]interface{} {
	env := make(map[string]interface{}, len(m)+5)
	for k, v := range m {
		env[k] = v
	}
	env["sprig"] = sprigFuncMap
	env["json"] = _json
	env["int"] = _int
	env["float"] = _float
	env["string"] = _string
	return env
}

func _int(v interface{}) int {
	switch w := v.(type) {
	case []byte:
		i, err := strconv.Atoi(string(w))
		if err != nil {
			panic(fmt.Errorf("cannot convert %q an int", v))
		}
		return i
	case string:
		i, err := strconv.Atoi(w)
		if err != nil {
			panic(fmt.Errorf("cannot convert %q to int", v))
		}
		return i
	case float64:
		return int(w)
	case int64:
		return int(w)
	case int:
		return w
	default:
		panic(fmt.Errorf("cannot convert %q to int", v))
	}
}

func _float(v interface{}) float64 {
	switch w := v.(type) {
	case string:
		f, err := strconv.ParseFloat(w, 64)
		if err != nil {
			panic(fmt.Errorf("cannot convert %q to float", v))
		}
		return f
	case float64:
		return w
	case int64:
		return float64(w)
	case int:
		return float64(w)
	default:
		panic(fmt.Errorf("cannot convert %v to float", v))
	}
}

func _string(v interface{}) string {
	switch w := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(w)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func _json(v interface{}) map[string]interface{} {
	x := make(map[string]interface{})
	switch w := v.(type) {
	case nil:
		return nil
	case []byte:
		if err := json.Unmarshal(w, &x); err != nil {
			panic(fmt.Errorf("cannot convert %q to object: %v", v, err))
		}
		return x
	case string:
		if err := json.Unmarshal([]byte(w), &x); err != nil {
			panic(fmt.Errorf("cannot convert %q to object: %v", v, err))
		}
		return x
	default:
		panic("unknown type")
	}
}
