package cfnls

import "strings"

// Intrinsic function names, canonical (long) form.
const (
	FnRef          = "Ref"
	FnCondition    = "Condition"
	FnBase64       = "Fn::Base64"
	FnCidr         = "Fn::Cidr"
	FnFindInMap    = "Fn::FindInMap"
	FnForEach      = "Fn::ForEach"
	FnGetAtt       = "Fn::GetAtt"
	FnGetAZs       = "Fn::GetAZs"
	FnIf           = "Fn::If"
	FnImportValue  = "Fn::ImportValue"
	FnJoin         = "Fn::Join"
	FnLength       = "Fn::Length"
	FnNot          = "Fn::Not"
	FnAnd          = "Fn::And"
	FnOr           = "Fn::Or"
	FnEquals       = "Fn::Equals"
	FnSelect       = "Fn::Select"
	FnSplit        = "Fn::Split"
	FnSub          = "Fn::Sub"
	FnToJSONString = "Fn::ToJsonString"
	FnTransform    = "Fn::Transform"
)

// Intrinsic describes one intrinsic function for completion purposes.
type Intrinsic struct {
	// Name is the canonical long-form name (e.g. "Fn::GetAtt", "Ref").
	Name string

	// Doc is a one-paragraph description shown as completion documentation.
	Doc string

	// ConditionArgs lists the zero-based argument slots that carry a
	// condition name (used by the condition-usage classification).
	ConditionArgs []int
}

// Intrinsics lists every intrinsic function, canonical order.
var Intrinsics = []Intrinsic{
	{Name: FnRef, Doc: "Returns the value of the specified parameter or resource."},
	{Name: FnBase64, Doc: "Returns the Base64 representation of the input string."},
	{Name: FnCidr, Doc: "Returns an array of CIDR address blocks."},
	{Name: FnFindInMap, Doc: "Returns the value corresponding to keys in a two-level map declared in the Mappings section."},
	{Name: FnForEach, Doc: "Replicates a template fragment for each value in a collection (requires the AWS::LanguageExtensions transform)."},
	{Name: FnGetAtt, Doc: "Returns the value of an attribute from a resource in the template."},
	{Name: FnGetAZs, Doc: "Returns an array that lists Availability Zones for a specified Region."},
	{Name: FnIf, Doc: "Returns one value if the specified condition evaluates to true and another value if it evaluates to false.", ConditionArgs: []int{0}},
	{Name: FnImportValue, Doc: "Returns the value of an output exported by another stack."},
	{Name: FnJoin, Doc: "Appends a set of values into a single value, separated by the specified delimiter."},
	{Name: FnLength, Doc: "Returns the number of elements within an array or an intrinsic function that returns an array."},
	{Name: FnAnd, Doc: "Returns true if all the specified conditions evaluate to true."},
	{Name: FnOr, Doc: "Returns true if any one of the specified conditions evaluates to true."},
	{Name: FnNot, Doc: "Returns true for a condition that evaluates to false."},
	{Name: FnEquals, Doc: "Compares if two values are equal."},
	{Name: FnSelect, Doc: "Returns a single object from a list of objects by index."},
	{Name: FnSplit, Doc: "Splits a string into a list of string values."},
	{Name: FnSub, Doc: "Substitutes variables in an input string with their values."},
	{Name: FnToJSONString, Doc: "Converts an object or array to its corresponding JSON string."},
	{Name: FnTransform, Doc: "Specifies a macro to perform custom processing on part of a stack template."},
}

// LookupIntrinsic returns the Intrinsic for a canonical name.
func LookupIntrinsic(name string) (Intrinsic, bool) {
	for _, in := range Intrinsics {
		if in.Name == name {
			return in, true
		}
	}

	return Intrinsic{}, false
}

// NormalizeIntrinsic maps any spelling of an intrinsic function to its
// canonical long-form name:
//
//	!GetAtt        -> Fn::GetAtt
//	Fn::GetAtt     -> Fn::GetAtt
//	!Ref / Ref     -> Ref
//	Fn::ForEach::X -> Fn::ForEach
//
// The second result is false when name is not an intrinsic.
func NormalizeIntrinsic(name string) (string, bool) {
	name = strings.TrimPrefix(name, "!")

	switch {
	case name == "Ref":
		return FnRef, true
	case name == "Condition":
		return FnCondition, true
	case strings.HasPrefix(name, "Fn::ForEach::"), name == FnForEach, name == "ForEach":
		return FnForEach, true
	}

	if !strings.HasPrefix(name, "Fn::") {
		// Short form without the bang already stripped, e.g. "GetAtt".
		name = "Fn::" + name
	}

	if _, ok := LookupIntrinsic(name); ok {
		return name, true
	}

	return "", false
}

// ShortForm returns the YAML tag spelling of a canonical intrinsic name
// ("Fn::GetAtt" -> "!GetAtt", "Ref" -> "!Ref").
func ShortForm(name string) string {
	return "!" + strings.TrimPrefix(name, "Fn::")
}

// ConditionConsumers is the set of intrinsics whose Condition-keyed
// operands name a declared condition.
var ConditionConsumers = map[string]bool{
	FnAnd:    true,
	FnOr:     true,
	FnNot:    true,
	FnEquals: true,
}
