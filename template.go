// Package cfnls provides the template-language model shared by the
// cfn-ls language server: top-level sections, entity kinds, intrinsic
// functions, and the fixed vocabularies (parameter types, pseudo
// parameters) that completion draws from.
package cfnls

// Top-level template sections.
const (
	SectionResources             = "Resources"
	SectionParameters            = "Parameters"
	SectionOutputs               = "Outputs"
	SectionConditions            = "Conditions"
	SectionMappings              = "Mappings"
	SectionRules                 = "Rules"
	SectionTransform             = "Transform"
	SectionMetadata              = "Metadata"
	SectionDescription           = "Description"
	SectionTemplateFormatVersion = "AWSTemplateFormatVersion"
)

// TopLevelSections returns every valid top-level section key in
// canonical document order.
func TopLevelSections() []string {
	return []string{
		SectionTemplateFormatVersion,
		SectionDescription,
		SectionTransform,
		SectionMetadata,
		SectionParameters,
		SectionRules,
		SectionMappings,
		SectionConditions,
		SectionResources,
		SectionOutputs,
	}
}

// IsTopLevelSection reports whether name is a valid top-level section key.
func IsTopLevelSection(name string) bool {
	for _, s := range TopLevelSections() {
		if s == name {
			return true
		}
	}

	return false
}

// EntityKind identifies what kind of named entity encloses a position.
type EntityKind string

// Entity kinds, one per entity-scoped top-level section plus the
// ForEach-generated resource variant.
const (
	EntityResource        EntityKind = "resource"
	EntityParameter       EntityKind = "parameter"
	EntityOutput          EntityKind = "output"
	EntityCondition       EntityKind = "condition"
	EntityMapping         EntityKind = "mapping"
	EntityRule            EntityKind = "rule"
	EntityMetadata        EntityKind = "metadata"
	EntityForEachResource EntityKind = "foreach_resource"
	EntityUnknown         EntityKind = "unknown"
)

// EntityKindForSection maps a top-level section to the kind of entity it
// contains. Sections that hold scalar values (Description, Transform)
// map to EntityUnknown.
func EntityKindForSection(section string) EntityKind {
	switch section {
	case SectionResources:
		return EntityResource
	case SectionParameters:
		return EntityParameter
	case SectionOutputs:
		return EntityOutput
	case SectionConditions:
		return EntityCondition
	case SectionMappings:
		return EntityMapping
	case SectionRules:
		return EntityRule
	case SectionMetadata:
		return EntityMetadata
	default:
		return EntityUnknown
	}
}

// Resource attribute keys valid alongside Type/Properties in a resource body.
var ResourceAttributes = []string{
	"Condition",
	"CreationPolicy",
	"DeletionPolicy",
	"DependsOn",
	"Metadata",
	"UpdatePolicy",
	"UpdateReplacePolicy",
}

// Output entity fields.
var OutputFields = []string{
	"Condition",
	"Description",
	"Export",
	"Value",
}

// Parameter entity fields.
var ParameterFields = []string{
	"AllowedPattern",
	"AllowedValues",
	"ConstraintDescription",
	"Default",
	"Description",
	"MaxLength",
	"MaxValue",
	"MinLength",
	"MinValue",
	"NoEcho",
	"Type",
}

// ParameterTypes returns the fixed list of values valid for a
// parameter's Type field.
func ParameterTypes() []string {
	return []string{
		"String",
		"Number",
		"List<Number>",
		"CommaDelimitedList",
		"AWS::EC2::AvailabilityZone::Name",
		"AWS::EC2::Image::Id",
		"AWS::EC2::Instance::Id",
		"AWS::EC2::KeyPair::KeyName",
		"AWS::EC2::SecurityGroup::GroupName",
		"AWS::EC2::SecurityGroup::Id",
		"AWS::EC2::Subnet::Id",
		"AWS::EC2::Volume::Id",
		"AWS::EC2::VPC::Id",
		"AWS::Route53::HostedZone::Id",
		"List<AWS::EC2::AvailabilityZone::Name>",
		"List<AWS::EC2::Image::Id>",
		"List<AWS::EC2::Instance::Id>",
		"List<AWS::EC2::KeyPair::KeyName>",
		"List<AWS::EC2::SecurityGroup::GroupName>",
		"List<AWS::EC2::SecurityGroup::Id>",
		"List<AWS::EC2::Subnet::Id>",
		"List<AWS::EC2::Volume::Id>",
		"List<AWS::EC2::VPC::Id>",
		"List<AWS::Route53::HostedZone::Id>",
		"AWS::SSM::Parameter::Name",
		"AWS::SSM::Parameter::Value<String>",
		"AWS::SSM::Parameter::Value<List<String>>",
		"AWS::SSM::Parameter::Value<CommaDelimitedList>",
	}
}

// PseudoParameters returns the predefined parameters available to Ref
// without being declared in the template.
func PseudoParameters() []string {
	return []string{
		"AWS::AccountId",
		"AWS::NotificationARNs",
		"AWS::NoValue",
		"AWS::Partition",
		"AWS::Region",
		"AWS::StackId",
		"AWS::StackName",
		"AWS::URLSuffix",
	}
}

// ServerlessTransform is the macro name a template must declare in its
// Transform section before AWS::Serverless::* resource types apply.
const ServerlessTransform = "AWS::Serverless-2016-10-31"

// ServerlessPrefix is the resource-type namespace gated by ServerlessTransform.
const ServerlessPrefix = "AWS::Serverless::"
