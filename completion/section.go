package completion

import (
	"strings"

	cfnls "github.com/cfnlang/cfn-ls"
	"github.com/cfnlang/cfn-ls/document"
)

// TopLevelSectionProvider offers the top-level section keys a template
// has not declared yet, plus a skeleton snippet per section. Snippet
// bodies are written with tab placeholders and later re-indented to the
// document's unit.
type TopLevelSectionProvider struct{}

// yamlSectionSnippets holds skeleton bodies for the sections that carry
// structure worth scaffolding.
var yamlSectionSnippets = map[string]string{
	cfnls.SectionResources:  "Resources:\n\t${1:LogicalId}:\n\t\tType: ${2:AWS::}\n\t\tProperties:\n\t\t\t$0",
	cfnls.SectionParameters: "Parameters:\n\t${1:ParameterName}:\n\t\tType: ${2:String}\n\t\t$0",
	cfnls.SectionOutputs:    "Outputs:\n\t${1:OutputName}:\n\t\tValue: $0",
	cfnls.SectionConditions: "Conditions:\n\t${1:ConditionName}: $0",
	cfnls.SectionMappings:   "Mappings:\n\t${1:MapName}:\n\t\t${2:Key}:\n\t\t\t${3:Name}: $0",
	cfnls.SectionRules:      "Rules:\n\t${1:RuleName}:\n\t\tAssertions:\n\t\t\t- Assert: $0",
	cfnls.SectionMetadata:   "Metadata:\n\t$0",
}

var jsonSectionSnippets = map[string]string{
	cfnls.SectionResources:  "\"Resources\": {\n\t\"${1:LogicalId}\": {\n\t\t\"Type\": \"${2:AWS::}\",\n\t\t\"Properties\": {$0}\n\t}\n}",
	cfnls.SectionParameters: "\"Parameters\": {\n\t\"${1:ParameterName}\": {\n\t\t\"Type\": \"${2:String}\"$0\n\t}\n}",
	cfnls.SectionOutputs:    "\"Outputs\": {\n\t\"${1:OutputName}\": {\n\t\t\"Value\": $0\n\t}\n}",
	cfnls.SectionConditions: "\"Conditions\": {\n\t\"${1:ConditionName}\": $0\n}",
	cfnls.SectionMappings:   "\"Mappings\": {\n\t\"${1:MapName}\": {\n\t\t\"${2:Key}\": {\n\t\t\t\"${3:Name}\": $0\n\t\t}\n\t}\n}",
	cfnls.SectionRules:      "\"Rules\": {\n\t\"${1:RuleName}\": {\n\t\t\"Assertions\": [$0]\n\t}\n}",
	cfnls.SectionMetadata:   "\"Metadata\": {$0}",
}

// Provide implements Provider.
func (TopLevelSectionProvider) Provide(ctx *Context) []Candidate {
	declared := map[string]bool{}
	if ctx.Tree != nil {
		declared = ctx.Tree.TopLevelSections()
	}

	snippets := yamlSectionSnippets
	if ctx.DocType == document.JSON {
		snippets = jsonSectionSnippets
	}

	var out []Candidate

	for _, section := range cfnls.TopLevelSections() {
		if declared[section] && !strings.EqualFold(section, ctx.RawText) {
			continue
		}

		out = append(out, Candidate{
			Label: section,
			Kind:  CandidateSection,
		})

		if body, ok := snippets[section]; ok {
			out = append(out, Candidate{
				Label:   section + " section",
				Snippet: body,
				Kind:    CandidateSnippet,
				Detail:  "skeleton",
			})
		}
	}

	return out
}

// Match implements Matcher. Section names are few and short, so the
// tolerance is generous.
func (TopLevelSectionProvider) Match() MatchConfig {
	return MatchConfig{MaxDistance: 10, MinMatchLen: 1}
}
