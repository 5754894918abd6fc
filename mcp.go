package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/genprobe/internal/probe"
	xstrings "github.com/charmbracelet/x/exp/strings"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the probes as MCP tools over stdio.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := server.ServeStdio(newMCPServer(config)); err != nil {
				return probeError{err, "MCP server failed."}
			}
			return nil
		},
	}
}

// mcpProbes runs probes on behalf of MCP clients. Nothing is printed to
// stdout, as it carries the protocol.
type mcpProbes struct {
	cfg Config
}

func newMCPServer(cfg Config) *server.MCPServer {
	cfg.Quiet = true
	p := mcpProbes{cfg: cfg}
	apis := fmt.Sprintf("Provider to probe, one of %s.", xstrings.EnglishJoin(cfg.APIs.Names(), true))

	s := server.NewMCPServer("genprobe", buildVersion(), server.WithToolCapabilities(false))
	s.AddTool(mcp.NewTool("check",
		mcp.WithDescription("List the models of a provider and send a test prompt. On failure, the result has the error and the troubleshooting steps."),
		mcp.WithString("api", mcp.Description(apis)),
		mcp.WithString("model", mcp.Description("Model to test. Defaults to the provider's check model.")),
	), p.check)
	s.AddTool(mcp.NewTool("list_models",
		mcp.WithDescription("List the models a provider exposes."),
		mcp.WithString("api", mcp.Description(apis)),
	), p.listModels)
	s.AddTool(mcp.NewTool("generate",
		mcp.WithDescription("Send a prompt to a provider and return the generated text."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("The prompt.")),
		mcp.WithString("api", mcp.Description(apis)),
		mcp.WithString("model", mcp.Description("Model to use. Defaults to the provider's check model.")),
		mcp.WithNumber("max_tokens", mcp.Description("Maximum number of tokens to generate.")),
		mcp.WithNumber("temperature", mcp.Description("Sampling temperature.")),
	), p.generate)
	s.AddTool(mcp.NewTool("last_result",
		mcp.WithDescription("Show the most recent recorded probe of a provider."),
		mcp.WithString("api", mcp.Description(apis)),
	), p.lastResult)
	return s
}

func (p mcpProbes) config(req mcp.CallToolRequest) (Config, API, error) {
	cfg := p.cfg
	cfg.API = req.GetString("api", cfg.API)
	cfg.Model = req.GetString("model", cfg.Model)
	api, err := selectedAPI(cfg)
	return cfg, api, err
}

func (p mcpProbes) check(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, api, err := p.config(req)
	if err != nil {
		return toolError(err), nil
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	var out bytes.Buffer
	res := probe.Check(ctx, &out, setupFor(ctx, api), newProbe(cfg, api, flowCheck))
	record(cfg, flowCheck, res)
	if !res.OK() {
		return mcp.NewToolResultError(out.String()), nil
	}
	return mcp.NewToolResultText(out.String()), nil
}

func (p mcpProbes) listModels(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, api, err := p.config(req)
	if err != nil {
		return toolError(err), nil
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	var out bytes.Buffer
	pr := newProbe(cfg, api, flowCheck)
	pr.SkipGenerate = true
	res, err := probe.Test(ctx, &out, setupFor(ctx, api), pr)
	record(cfg, flowModels, res)
	if err != nil {
		return toolError(explain(api.Name, pr.Model, err)), nil
	}
	return mcp.NewToolResultText(out.String()), nil
}

func (p mcpProbes) generate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cfg, api, err := p.config(req)
	if err != nil {
		return toolError(err), nil
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	pr := newProbe(cfg, api, flowCheck)
	pr.SkipModels = true
	pr.Prompt = prompt
	var maxTokens *int64
	var temperature *float64
	args := req.GetArguments()
	if v, ok := args["max_tokens"].(float64); ok {
		n := int64(v)
		maxTokens = &n
	}
	if v, ok := args["temperature"].(float64); ok {
		temperature = &v
	}
	if pr, err = withSampling(pr, maxTokens, temperature); err != nil {
		return toolError(err), nil
	}
	res, err := probe.Test(ctx, io.Discard, setupFor(ctx, api), pr)
	record(cfg, flowGenerate, res)
	if err != nil {
		return toolError(explain(api.Name, pr.Model, err)), nil
	}
	return mcp.NewToolResultText(res.Response.Text), nil
}

func (p mcpProbes) lastResult(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, api, err := p.config(req)
	if err != nil {
		return toolError(err), nil
	}
	db, err := dbForConfig(cfg)
	if err != nil {
		return toolError(probeError{err, "Could not open the history database."}), nil
	}
	defer db.Close() //nolint:errcheck

	r, err := db.Last(api.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return mcp.NewToolResultText(fmt.Sprintf("No probes of %s recorded yet.", api.Name)), nil
	}
	if err != nil {
		return toolError(probeError{err, "Could not read the history."}), nil
	}
	var out bytes.Buffer
	printHistory(&out, []probeRecord{r}, false)
	return mcp.NewToolResultText(out.String()), nil
}

func toolError(err error) *mcp.CallToolResult {
	var perr probeError
	if errors.As(err, &perr) {
		return mcp.NewToolResultError(perr.Reason() + "\n" + err.Error())
	}
	return mcp.NewToolResultError(err.Error())
}
