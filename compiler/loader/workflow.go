package loader

import (
	"gopkg.in/yaml.v3"

	"github.com/layered-lang/layered/compiler/diag"
	"github.com/layered-lang/layered/compiler/document"
)

// loadWorkflow reads the workflow layer: one workflow per key, each a
// step list directly or under a "steps" key.
func (l *loader) loadWorkflow(n *yaml.Node) {
	for _, p := range mappingPairs(n, "workflow", &l.diags) {
		path := joinPath("workflow", p.key)
		wf := &document.Workflow{Name: p.key, Location: locOf(p.keyNode, path)}

		stepsNode := p.value
		if isMapping(p.value) {
			if inner := childValue(p.value, "steps"); inner != nil {
				stepsNode = inner
				path = joinPath(path, "steps")
			}
		}
		wf.Steps = l.loadSteps(stepsNode, path)

		if len(wf.Steps) == 0 {
			l.diags.Addf(diag.Schema, diag.Warning, wf.Location,
				"workflow %s has no steps", p.key)
		}

		if existing, ok := l.table.Define(document.NsWorkflow, p.key, wf, wf.Location); !ok {
			l.diags.Addf(diag.Consistency, diag.Error, wf.Location,
				"duplicate workflow %q, first definition at line %d wins",
				p.key, existing.Location.Line)
			continue
		}
		l.doc.Workflows = append(l.doc.Workflows, wf)
	}
}

// loadSteps reads an ordered step sequence. Steps nest arbitrarily:
// loop bodies, parallel bodies, branch arms and error handlers all
// recurse here.
func (l *loader) loadSteps(n *yaml.Node, basePath string) []*document.Step {
	n = deref(n)
	if isNull(n) {
		return nil
	}
	if !isSequence(n) {
		l.diags.Addf(diag.Schema, diag.Error, locOf(n, basePath),
			"expected a list of steps at %s", basePath)
		return nil
	}

	var steps []*document.Step
	for i, item := range n.Content {
		if step := l.loadStep(item, seqPath(basePath, i)); step != nil {
			steps = append(steps, step)
		}
	}
	return steps
}

// stepKeywords maps the discriminating key of a step mapping to its
// variant
var stepKeywords = map[string]document.StepKind{
	"call":     document.StepCall,
	"loop":     document.StepLoop,
	"parallel": document.StepParallel,
	"branch":   document.StepBranch,
	"wait":     document.StepWait,
}

func (l *loader) loadStep(n *yaml.Node, path string) *document.Step {
	n = deref(n)

	// "- OperationName" is shorthand for a bare call step.
	if s, ok := scalarString(n); ok {
		return &document.Step{
			Kind:     document.StepCall,
			Location: locOf(n, path),
			Call: &document.CallStep{
				Operation: l.newRef(s, document.NsOperation, locOf(n, path)),
			},
		}
	}

	if !isMapping(n) {
		l.diags.Addf(diag.Schema, diag.Error, locOf(n, path),
			"step must be an operation name or a mapping with one of call, loop, parallel, branch, wait")
		return nil
	}

	pairs := mappingPairs(n, path, &l.diags)
	for _, p := range pairs {
		kind, ok := stepKeywords[p.key]
		if !ok {
			continue
		}
		step := &document.Step{Kind: kind, Location: locOf(p.keyNode, path)}
		switch kind {
		case document.StepCall:
			step.Call = l.loadCallStep(p.value, pairs, path)
		case document.StepLoop:
			step.Loop = l.loadLoopStep(p.value, joinPath(path, "loop"))
		case document.StepParallel:
			step.Parallel = l.loadParallelStep(p.value, joinPath(path, "parallel"))
		case document.StepBranch:
			step.Branch = l.loadBranchStep(p.value, joinPath(path, "branch"))
		case document.StepWait:
			step.Wait = l.loadWaitStep(p.value, joinPath(path, "wait"))
		}
		return step
	}

	l.diags.Addf(diag.Schema, diag.Error, locOf(n, path),
		"step has none of call, loop, parallel, branch, wait")
	return nil
}

// loadCallStep reads "call: Operation" plus its sibling attributes
func (l *loader) loadCallStep(callValue *yaml.Node, siblings []pair, path string) *document.CallStep {
	call := &document.CallStep{}

	opName, ok := scalarString(callValue)
	if !ok {
		l.diags.Addf(diag.Schema, diag.Error, locOf(callValue, joinPath(path, "call")),
			"call target must be an operation name")
	} else {
		call.Operation = l.newRef(opName, document.NsOperation, locOf(callValue, joinPath(path, "call")))
	}

	for _, p := range siblings {
		attrPath := joinPath(path, p.key)
		switch p.key {
		case "call":
			// handled above
		case "condition":
			call.Condition = stringValue(p.value, attrPath, &l.diags)
		case "retry":
			call.Retry = l.loadRetryPolicy(p.value, attrPath)
		case "on_error":
			call.OnError = l.loadHandler(p.value, attrPath)
		case "on_timeout":
			call.OnTimeout = l.loadHandler(p.value, attrPath)
		default:
			l.diags.Addf(diag.Schema, diag.Warning, locOf(p.keyNode, attrPath),
				"unknown call attribute %q ignored", p.key)
		}
	}
	return call
}

func (l *loader) loadRetryPolicy(n *yaml.Node, path string) *document.RetryPolicy {
	policy := &document.RetryPolicy{}
	for _, p := range mappingPairs(n, path, &l.diags) {
		attrPath := joinPath(path, p.key)
		switch p.key {
		case "max_attempts":
			policy.MaxAttempts = intValue(p.value, attrPath, &l.diags)
		case "backoff":
			policy.Backoff = stringValue(p.value, attrPath, &l.diags)
		default:
			l.diags.Addf(diag.Schema, diag.Warning, locOf(p.keyNode, attrPath),
				"unknown retry attribute %q ignored", p.key)
		}
	}
	return policy
}

// loadHandler reads an on_error/on_timeout target: either an
// operation name or a nested step sequence.
func (l *loader) loadHandler(n *yaml.Node, path string) *document.Handler {
	n = deref(n)
	if s, ok := scalarString(n); ok {
		return &document.Handler{
			Operation: l.newRef(s, document.NsOperation, locOf(n, path)),
		}
	}
	if isSequence(n) {
		return &document.Handler{Steps: l.loadSteps(n, path)}
	}
	l.diags.Addf(diag.Reference, diag.Error, locOf(n, path),
		"handler at %s must be an operation name or a nested step list", path)
	return nil
}

func (l *loader) loadLoopStep(n *yaml.Node, path string) *document.LoopStep {
	loop := &document.LoopStep{}
	for _, p := range mappingPairs(n, path, &l.diags) {
		attrPath := joinPath(path, p.key)
		switch p.key {
		case "over":
			loop.Over = stringValue(p.value, attrPath, &l.diags)
		case "while":
			loop.While = stringValue(p.value, attrPath, &l.diags)
		case "body", "steps":
			loop.Body = l.loadSteps(p.value, attrPath)
		case "max_iterations":
			loop.MaxIterations = intValue(p.value, attrPath, &l.diags)
		case "timeout":
			loop.Timeout = stringValue(p.value, attrPath, &l.diags)
		default:
			l.diags.Addf(diag.Schema, diag.Warning, locOf(p.keyNode, attrPath),
				"unknown loop attribute %q ignored", p.key)
		}
	}
	if loop.Over == "" && loop.While == "" {
		l.diags.Addf(diag.Schema, diag.Error, locOf(n, path),
			"loop requires a collection (over) or a condition (while)")
	}
	return loop
}

func (l *loader) loadParallelStep(n *yaml.Node, path string) *document.ParallelStep {
	n = deref(n)
	if isSequence(n) {
		return &document.ParallelStep{Body: l.loadSteps(n, path)}
	}
	if isMapping(n) {
		if inner := childValue(n, "steps"); inner != nil {
			return &document.ParallelStep{Body: l.loadSteps(inner, joinPath(path, "steps"))}
		}
	}
	l.diags.Addf(diag.Schema, diag.Error, locOf(n, path),
		"parallel requires a step list")
	return &document.ParallelStep{}
}

// loadBranchStep reads the ordered (condition, body) arms. The first
// arm whose condition holds wins; an arm without a condition is the
// fallthrough.
func (l *loader) loadBranchStep(n *yaml.Node, path string) *document.BranchStep {
	n = deref(n)
	if !isSequence(n) {
		l.diags.Addf(diag.Schema, diag.Error, locOf(n, path),
			"branch requires a list of {condition, steps} arms")
		return &document.BranchStep{}
	}

	branch := &document.BranchStep{}
	for i, item := range n.Content {
		armPath := seqPath(path, i)
		var arm document.BranchCase
		for _, p := range mappingPairs(item, armPath, &l.diags) {
			attrPath := joinPath(armPath, p.key)
			switch p.key {
			case "condition":
				arm.Condition = stringValue(p.value, attrPath, &l.diags)
			case "steps", "body":
				arm.Body = l.loadSteps(p.value, attrPath)
			case "step":
				if step := l.loadStep(p.value, attrPath); step != nil {
					arm.Body = append(arm.Body, step)
				}
			default:
				l.diags.Addf(diag.Schema, diag.Warning, locOf(p.keyNode, attrPath),
					"unknown branch attribute %q ignored", p.key)
			}
		}
		branch.Cases = append(branch.Cases, arm)
	}
	return branch
}

func (l *loader) loadWaitStep(n *yaml.Node, path string) *document.WaitStep {
	n = deref(n)
	if s, ok := scalarString(n); ok {
		return &document.WaitStep{For: s}
	}

	wait := &document.WaitStep{}
	for _, p := range mappingPairs(n, path, &l.diags) {
		attrPath := joinPath(path, p.key)
		switch p.key {
		case "for", "until":
			wait.For = stringValue(p.value, attrPath, &l.diags)
		case "timeout":
			wait.Timeout = stringValue(p.value, attrPath, &l.diags)
		default:
			l.diags.Addf(diag.Schema, diag.Warning, locOf(p.keyNode, attrPath),
				"unknown wait attribute %q ignored", p.key)
		}
	}
	if wait.For == "" {
		l.diags.Addf(diag.Schema, diag.Error, locOf(n, path),
			"wait requires a duration or condition")
	}
	return wait
}
