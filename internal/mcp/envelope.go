package mcp

import (
	"encoding/json"
	"fmt"

	"logistics-insights/internal/analytics"
	"logistics-insights/internal/service"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ResponseEnvelope is the JSON body of every successful tool call.
type ResponseEnvelope struct {
	Data     any      `json:"data"`
	Warnings []string `json:"_data_quality,omitempty"`
	Guidance []string `json:"_guidance,omitempty"`
}

// WrapResponse attaches data-quality warnings and interpretation guidance to a result.
func WrapResponse(data any, faults []analytics.DataFault, guidance []string) ResponseEnvelope {
	env := ResponseEnvelope{Data: data, Guidance: guidance}
	for _, f := range faults {
		env.Warnings = append(env.Warnings, fmt.Sprintf("%s (%s): %s", f.Subject, f.Kind, f.Detail))
	}
	return env
}

func (s *Server) toolResult(env ResponseEnvelope, charts ...string) (*sdk.CallToolResult, any, error) {
	body, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode response: %w", err)
	}

	res := &sdk.CallToolResult{
		Content:           []sdk.Content{&sdk.TextContent{Text: string(body)}},
		StructuredContent: env,
	}
	if s.enableMermaidCharts {
		for _, chart := range charts {
			if chart != "" {
				res.Content = append(res.Content, &sdk.TextContent{Text: chart})
			}
		}
	}
	return res, nil, nil
}

// failureResult reports a failed analysis as a tool error carrying the failure envelope.
func failureResult(err error) (*sdk.CallToolResult, any, error) {
	f := service.NewFailure(err)
	body, merr := json.Marshal(f)
	if merr != nil {
		return nil, nil, err
	}
	return &sdk.CallToolResult{
		IsError: true,
		Content: []sdk.Content{&sdk.TextContent{Text: string(body)}},
	}, nil, nil
}
