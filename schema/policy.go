package schema

import (
	"sort"

	"github.com/cfnlang/cfn-ls/document"
)

// PolicyNode is one level of the declarative resource-attribute schema
// (CreationPolicy, UpdatePolicy and friends). This schema is maintained
// by hand and is independent of the network-supplied resource schemas.
type PolicyNode struct {
	Doc      string
	Children map[string]*PolicyNode
	Enum     []string
	Boolean  bool

	// SupportedTypes gates a top-level policy name to the resource
	// types that honor it. Empty means any type.
	SupportedTypes []string
}

func (n *PolicyNode) supports(resourceType string) bool {
	if len(n.SupportedTypes) == 0 {
		return true
	}

	for _, t := range n.SupportedTypes {
		if t == resourceType {
			return true
		}
	}

	return false
}

const (
	typeAutoScalingGroup = "AWS::AutoScaling::AutoScalingGroup"
	typeEC2Instance      = "AWS::EC2::Instance"
	typeWaitCondition    = "AWS::CloudFormation::WaitCondition"
	typeAppStreamFleet   = "AWS::AppStream::Fleet"
	typeLambdaAlias      = "AWS::Lambda::Alias"
	typeElastiCacheRG    = "AWS::ElastiCache::ReplicationGroup"
	typeESDomain         = "AWS::Elasticsearch::Domain"
	typeOpenSearchDomain = "AWS::OpenSearchService::Domain"
)

// attributePolicies is the full declarative schema, keyed first by
// resource attribute name, then by nested policy path.
var attributePolicies = map[string]*PolicyNode{
	"CreationPolicy": {
		Doc: "Prevents a resource's status from reaching create complete until signalled.",
		Children: map[string]*PolicyNode{
			"ResourceSignal": {
				Doc:            "Signal count and timeout the resource must receive during creation.",
				SupportedTypes: []string{typeAutoScalingGroup, typeEC2Instance, typeWaitCondition},
				Children: map[string]*PolicyNode{
					"Count":   {Doc: "The number of success signals required."},
					"Timeout": {Doc: "ISO8601 duration to wait for the signals (e.g. PT15M)."},
				},
			},
			"AutoScalingCreationPolicy": {
				Doc:            "How many instances must signal success for the creation to succeed.",
				SupportedTypes: []string{typeAutoScalingGroup},
				Children: map[string]*PolicyNode{
					"MinSuccessfulInstancesPercent": {Doc: "Percentage of instances that must signal success."},
				},
			},
			"StartFleet": {
				Doc:            "Starts the fleet after it is created.",
				SupportedTypes: []string{typeAppStreamFleet},
				Children: map[string]*PolicyNode{
					"Type": {Doc: "Start the AppStream fleet on creation.", Boolean: true},
				},
			},
		},
	},
	"UpdatePolicy": {
		Doc: "Controls how CloudFormation handles updates to certain resources.",
		Children: map[string]*PolicyNode{
			"AutoScalingRollingUpdate": {
				Doc:            "Rolls instances in batches during an update.",
				SupportedTypes: []string{typeAutoScalingGroup},
				Children: map[string]*PolicyNode{
					"MaxBatchSize":                  {Doc: "Maximum number of instances updated at once."},
					"MinInstancesInService":         {Doc: "Instances that must stay in service during the update."},
					"MinSuccessfulInstancesPercent": {Doc: "Percentage of instances that must signal success."},
					"PauseTime":                     {Doc: "ISO8601 pause between batches (e.g. PT5M)."},
					"SuspendProcesses":              {Doc: "Auto Scaling processes to suspend during the update."},
					"WaitOnResourceSignals":         {Doc: "Wait for instances to signal success.", Boolean: true},
				},
			},
			"AutoScalingReplacingUpdate": {
				Doc:            "Replaces the whole group and its instances during an update.",
				SupportedTypes: []string{typeAutoScalingGroup},
				Children: map[string]*PolicyNode{
					"WillReplace": {Doc: "Replace the group rather than updating in place.", Boolean: true},
				},
			},
			"AutoScalingScheduledAction": {
				Doc:            "How scheduled actions interact with group-size property updates.",
				SupportedTypes: []string{typeAutoScalingGroup},
				Children: map[string]*PolicyNode{
					"IgnoreUnmodifiedGroupSizeProperties": {Doc: "Ignore unmodified size properties during update.", Boolean: true},
				},
			},
			"UseOnlineResharding": {
				Doc:            "Reshard without interrupting the cluster.",
				SupportedTypes: []string{typeElastiCacheRG},
				Boolean:        true,
			},
			"EnableVersionUpgrade": {
				Doc:            "Upgrade the domain engine version without replacement.",
				SupportedTypes: []string{typeESDomain, typeOpenSearchDomain},
				Boolean:        true,
			},
			"CodeDeployLambdaAliasUpdate": {
				Doc:            "Shift alias traffic through CodeDeploy during an update.",
				SupportedTypes: []string{typeLambdaAlias},
				Children: map[string]*PolicyNode{
					"ApplicationName":        {Doc: "CodeDeploy application name."},
					"DeploymentGroupName":    {Doc: "CodeDeploy deployment group name."},
					"BeforeAllowTrafficHook": {Doc: "Lambda function run before traffic shifting."},
					"AfterAllowTrafficHook":  {Doc: "Lambda function run after traffic shifting."},
				},
			},
		},
	},
	"DeletionPolicy": {
		Doc:  "What happens to the resource when its stack is deleted.",
		Enum: []string{"Delete", "Retain", "RetainExceptOnCreate", "Snapshot"},
	},
	"UpdateReplacePolicy": {
		Doc:  "What happens to the old resource when an update requires replacement.",
		Enum: []string{"Delete", "Retain", "Snapshot"},
	},
}

// AttributePolicyRoot returns the declarative schema for one resource
// attribute name.
func AttributePolicyRoot(attr string) (*PolicyNode, bool) {
	n, ok := attributePolicies[attr]

	return n, ok
}

// ResolveAttributePolicy descends the declarative schema one path
// segment per level and returns the node at that path, honoring the
// supported-type gate on the first level of policy names. A nil result
// means nothing is admissible there for this resource type.
func ResolveAttributePolicy(attr, resourceType string, path []document.Segment) *PolicyNode {
	node, ok := attributePolicies[attr]
	if !ok {
		return nil
	}

	for i, seg := range path {
		if seg.IsIndex {
			continue
		}

		child, ok := node.Children[seg.Key]
		if !ok {
			return nil
		}

		// The supported-type gate sits on the first named level.
		if i == 0 && !child.supports(resourceType) {
			return nil
		}

		node = child
	}

	return node
}

// PolicyChildNames lists the child names admissible under node for a
// resource type, alphabetically. The supported-type gate applies only
// at the top level of policy names.
func PolicyChildNames(node *PolicyNode, resourceType string, topLevel bool) []string {
	if node == nil {
		return nil
	}

	names := make([]string, 0, len(node.Children))

	for name, child := range node.Children {
		if topLevel && !child.supports(resourceType) {
			continue
		}

		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
