package env

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const maskedValue = "********"

var durationType = reflect.TypeOf(time.Duration(0))

// MarshalEnv reflects over one or more config structs and renders .env
// content from their env tags. Fields tagged secret:"true" are masked.
func MarshalEnv(configs ...any) (string, error) {
	var lines []string
	for _, c := range configs {
		v := reflect.ValueOf(c)
		if v.Kind() == reflect.Ptr {
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return "", fmt.Errorf("env: expected struct, got %s", v.Kind())
		}
		lines = append(lines, marshalStruct(v)...)
	}

	result := strings.Join(lines, "\n")
	if result != "" && !strings.HasSuffix(result, "\n") {
		result += "\n"
	}

	return result, nil
}

func marshalStruct(v reflect.Value) []string {
	var lines []string
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		val := v.Field(i)
		if field.Type.Kind() == reflect.Struct && field.Tag.Get("env") == "" {
			lines = append(lines, marshalStruct(val)...)
			continue
		}

		// Parse tag: "KEY,required,notEmpty" or "KEY"
		key := strings.Split(field.Tag.Get("env"), ",")[0]
		if key == "" {
			continue
		}

		if isZeroValue(val) {
			continue
		}

		strVal := formatValue(val)
		if field.Tag.Get("secret") == "true" {
			strVal = maskedValue
		}
		lines = append(lines, fmt.Sprintf("%s=%s", key, strVal))
	}
	return lines
}

// isZeroValue checks if a reflect.Value is the zero value for its type
func isZeroValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

func formatValue(v reflect.Value) string {
	if v.Type() == durationType {
		return time.Duration(v.Int()).String()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
