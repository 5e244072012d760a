/*
Package guard 提供无状态的前置条件检查，每个检查返回结构化的 Result。

guard 不是规则引擎，只提供一组固定的基础检查；
调用方通常把失败的 Result 转换为 DomainError，再以 result.Fail 返回。
*/
package guard

import (
	"cmp"
	"fmt"
	"reflect"

	"ddd-kernel/domain/shared"

	jsoniter "github.com/json-iterator/go"
)

// Result 单个检查的结果
type Result struct {
	Succeeded     bool
	Message       string
	FailedArgName string
}

// Argument 批量空值检查的参数
type Argument struct {
	Argument     any
	ArgumentName string
}

func ok() Result {
	return Result{Succeeded: true}
}

// ToDomainError 把失败的检查结果转换为校验类领域错误；成功时返回 nil
func (r Result) ToDomainError(entity string) *shared.DomainError {
	if r.Succeeded {
		return nil
	}
	return shared.NewValidationError(entity, r.FailedArgName, r.Message)
}

// Combine 全部成功时成功；否则返回第一个失败结果（保留其消息与参数名）
func Combine(results ...Result) Result {
	for _, r := range results {
		if !r.Succeeded {
			return r
		}
	}
	return ok()
}

// AgainstNilOrEmpty 值为 nil（含 nil 指针/切片/map 等）或空字符串时失败
// 0 与 false 是合法值
func AgainstNilOrEmpty(argument any, argumentName string) Result {
	if isNil(argument) {
		return Result{
			Message:       fmt.Sprintf("%s is null or undefined", argumentName),
			FailedArgName: argumentName,
		}
	}
	if s, isString := argument.(string); isString && s == "" {
		return Result{
			Message:       fmt.Sprintf("%s is empty", argumentName),
			FailedArgName: argumentName,
		}
	}
	return ok()
}

// AgainstNilOrEmptyBulk 按顺序检查，返回第一个失败
func AgainstNilOrEmptyBulk(args ...Argument) Result {
	for _, arg := range args {
		if r := AgainstNilOrEmpty(arg.Argument, arg.ArgumentName); !r.Succeeded {
			return r
		}
	}
	return ok()
}

// IsOneOf 值严格等于 allowed 中的某一项时成功
func IsOneOf[T comparable](value T, allowed []T, argumentName string) Result {
	for _, candidate := range allowed {
		if value == candidate {
			return ok()
		}
	}

	rendered, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(allowed)
	if err != nil {
		rendered = fmt.Sprint(allowed)
	}
	return Result{
		Message:       fmt.Sprintf("%s isn't oneOf the correct types in %s. Got \"%v\".", argumentName, rendered, value),
		FailedArgName: argumentName,
	}
}

// InRange 闭区间检查 min <= n <= max
func InRange[N cmp.Ordered](n, min, max N, argumentName string) Result {
	if n < min || n > max {
		return Result{
			Message:       fmt.Sprintf("%s is not within range %v to %v.", argumentName, min, max),
			FailedArgName: argumentName,
		}
	}
	return ok()
}

// AllInRange 每个元素都在闭区间内时成功；失败消息指出第一个越界的元素
func AllInRange[N cmp.Ordered](numbers []N, min, max N, argumentName string) Result {
	for i, n := range numbers {
		if r := InRange(n, min, max, argumentName); !r.Succeeded {
			return Result{
				Message:       fmt.Sprintf("%s is not within range %v to %v: element %d is %v.", argumentName, min, max, i, n),
				FailedArgName: argumentName,
			}
		}
	}
	return ok()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
