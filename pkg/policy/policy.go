package policy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/m-mizutani/edumentor/pkg/model"
	"github.com/m-mizutani/edumentor/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/open-policy-agent/opa/v1/topdown/print"
)

// DenyQuery is evaluated once per recommended resource. Policies declare
// `package resource` and add messages to the `deny` set.
const DenyQuery = "data.resource.deny"

// regoPrintHook forwards Rego print() statements to the context logger
type regoPrintHook struct {
	ctx context.Context
}

func (h *regoPrintHook) Print(pctx print.Context, message string) error {
	logging.From(h.ctx).Debug("rego print", "message", message, "location", pctx.Location)
	return nil
}

// Engine filters recommended learning resources with Rego policies
type Engine struct {
	deny *rego.PreparedEvalQuery
}

// New loads all .rego files in policyDir. An empty policyDir or a directory
// without policy files yields an engine that allows every resource.
func New(ctx context.Context, policyDir string) (*Engine, error) {
	if policyDir == "" {
		return &Engine{}, nil
	}

	files, err := filepath.Glob(filepath.Join(policyDir, "*.rego"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to glob policy files", goerr.V("dir", policyDir))
	}
	if len(files) == 0 {
		logging.From(ctx).Debug("no policy files found", "dir", policyDir)
		return &Engine{}, nil
	}

	options := make([]func(*rego.Rego), 0, len(files)+1)
	options = append(options, rego.Query(DenyQuery))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read policy file", goerr.V("path", file))
		}
		options = append(options, rego.Module(file, string(data)))
	}

	prepared, err := rego.New(options...).PrepareForEval(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to prepare policy", goerr.V("dir", policyDir))
	}

	logging.From(ctx).Debug("policies loaded", "dir", policyDir, "files", len(files))
	return &Engine{deny: &prepared}, nil
}

// Deny returns the deny messages for one resource, sorted. No messages
// means the resource is allowed.
func (e *Engine) Deny(ctx context.Context, topic string, r *model.Resource) ([]string, error) {
	if e == nil || e.deny == nil || r == nil {
		return nil, nil
	}

	input := map[string]any{
		"topic":       topic,
		"type":        string(r.Type),
		"title":       r.Title,
		"url":         r.URL,
		"description": r.Description,
	}

	rs, err := e.deny.Eval(ctx, rego.EvalInput(input), rego.EvalPrintHook(&regoPrintHook{ctx: ctx}))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to evaluate resource policy", goerr.V("url", r.URL))
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return nil, nil
	}

	values, ok := rs[0].Expressions[0].Value.([]any)
	if !ok {
		return nil, goerr.New("deny must be a set",
			goerr.V("type", fmt.Sprintf("%T", rs[0].Expressions[0].Value)))
	}

	msgs := make([]string, 0, len(values))
	for _, v := range values {
		msgs = append(msgs, fmt.Sprint(v))
	}
	sort.Strings(msgs)
	return msgs, nil
}

// FilterResources returns a copy of e without the resources denied by the
// policies. The input explanation is not modified.
func (e *Engine) FilterResources(ctx context.Context, topic string, exp *model.Explanation) (*model.Explanation, error) {
	if exp == nil || e == nil || e.deny == nil {
		return exp, nil
	}

	filtered := *exp
	filtered.Resources = make([]*model.Resource, 0, len(exp.Resources))
	for _, r := range exp.Resources {
		msgs, err := e.Deny(ctx, topic, r)
		if err != nil {
			return nil, err
		}
		if len(msgs) > 0 {
			logging.From(ctx).Info("resource denied by policy",
				"title", r.Title,
				"url", r.URL,
				"reasons", msgs,
			)
			continue
		}
		filtered.Resources = append(filtered.Resources, r)
	}
	return &filtered, nil
}
