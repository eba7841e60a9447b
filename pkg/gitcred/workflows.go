package gitcred

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	testJobPattern   = regexp.MustCompile(`(?i)test|spec|jest|mocha|cypress|playwright`)
	lintJobPattern   = regexp.MustCompile(`(?i)lint|format|eslint|prettier`)
	buildJobPattern  = regexp.MustCompile(`(?i)build|compile|webpack|rollup|vite`)
	deployJobPattern = regexp.MustCompile(`(?i)deploy|publish|release`)
	secretsPattern   = regexp.MustCompile(`(?i)secrets\.`)
	matrixPattern    = regexp.MustCompile(`(?i)strategy:\s*\n?\s*matrix:`)

	workflowNamePattern = regexp.MustCompile(`(?i)name:\s*(.+)`)
	workflowJobPattern  = regexp.MustCompile(`(?m)^\s{2}[a-zA-Z0-9_-]+:`)
)

// triggerOrder is the canonical order triggers are reported in.
// workflow_dispatch is reported as "manual".
var triggerOrder = []string{"push", "pull_request", "schedule", "manual"}

// analyzeWorkflow classifies one GitHub Actions workflow file: its declared
// triggers, job names, job-type flags, and a capped complexity score. The
// YAML is parsed structurally; malformed files fall back to regex scraping
// so a broken workflow still contributes signals.
func analyzeWorkflow(fileName, content string) WorkflowAnalysis {
	name, triggers, jobs, parsed := parseWorkflowYAML(content)
	if !parsed {
		name, triggers, jobs = scrapeWorkflow(content)
	}
	if name == "" {
		name = fileName
	}

	analysis := WorkflowAnalysis{
		Name:           name,
		FileName:       fileName,
		Triggers:       triggers,
		Jobs:           jobs,
		HasTestJob:     testJobPattern.MatchString(content),
		HasLintJob:     lintJobPattern.MatchString(content),
		HasBuildJob:    buildJobPattern.MatchString(content),
		HasDeployJob:   deployJobPattern.MatchString(content),
		UsesSecrets:    secretsPattern.MatchString(content),
		MatrixStrategy: matrixPattern.MatchString(content),
	}

	complexity := len(jobs)*10 + len(triggers)*5
	if analysis.HasTestJob {
		complexity += 15
	}
	if analysis.HasLintJob {
		complexity += 10
	}
	if analysis.HasBuildJob {
		complexity += 10
	}
	if analysis.HasDeployJob {
		complexity += 15
	}
	if analysis.UsesSecrets {
		complexity += 10
	}
	if analysis.MatrixStrategy {
		complexity += 20
	}
	analysis.Complexity = clamp(complexity)

	return analysis
}

// parseWorkflowYAML extracts the workflow name, triggers, and job names from
// the YAML document, preserving the file's job order.
func parseWorkflowYAML(content string) (name string, triggers, jobs []string, ok bool) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return "", nil, nil, false
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return "", nil, nil, false
	}

	root := doc.Content[0]
	declared := make(map[string]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "name":
			name = strings.Trim(value.Value, `'"`)
		case "on", "true": // unquoted "on" carries a boolean tag in YAML 1.1
			for _, trigger := range triggerNames(value) {
				declared[trigger] = true
			}
		case "jobs":
			if value.Kind == yaml.MappingNode {
				for j := 0; j < len(value.Content); j += 2 {
					jobs = append(jobs, value.Content[j].Value)
				}
			}
		}
	}

	for _, trigger := range triggerOrder {
		if declared[trigger] {
			triggers = append(triggers, trigger)
		}
	}
	return name, triggers, jobs, true
}

// triggerNames flattens an "on:" node (scalar, sequence, or mapping) into
// the canonical trigger vocabulary.
func triggerNames(node *yaml.Node) []string {
	var raw []string
	switch node.Kind {
	case yaml.ScalarNode:
		raw = append(raw, node.Value)
	case yaml.SequenceNode:
		for _, item := range node.Content {
			raw = append(raw, item.Value)
		}
	case yaml.MappingNode:
		for i := 0; i < len(node.Content); i += 2 {
			raw = append(raw, node.Content[i].Value)
		}
	}

	var names []string
	for _, value := range raw {
		switch value {
		case "push", "pull_request", "schedule":
			names = append(names, value)
		case "workflow_dispatch":
			names = append(names, "manual")
		}
	}
	return names
}

// scrapeWorkflow is the fallback for files yaml.v3 refuses to parse.
func scrapeWorkflow(content string) (name string, triggers, jobs []string) {
	if m := workflowNamePattern.FindStringSubmatch(content); m != nil {
		name = strings.Trim(strings.TrimSpace(m[1]), `'"`)
	}

	lower := strings.ToLower(content)
	if strings.Contains(lower, "on:") {
		declared := map[string]bool{
			"push":         strings.Contains(lower, "push"),
			"pull_request": strings.Contains(lower, "pull_request"),
			"schedule":     strings.Contains(lower, "schedule"),
			"manual":       strings.Contains(lower, "workflow_dispatch"),
		}
		for _, trigger := range triggerOrder {
			if declared[trigger] {
				triggers = append(triggers, trigger)
			}
		}
	}

	for _, match := range workflowJobPattern.FindAllString(content, -1) {
		jobs = append(jobs, strings.TrimSuffix(strings.TrimSpace(match), ":"))
	}
	return name, triggers, jobs
}
