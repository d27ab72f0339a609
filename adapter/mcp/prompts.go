package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common therapytrack workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	// Weekly check-in prompt
	srv.Prompt("weekly_checkin").
		Description("Review this week's therapy time against the goals and plan the remaining days.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Weekly Check-in",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Help me check in on my therapy practice this week. Please:

1. Read my week using the therapytrack://progress/week resource
2. Read my goals using the therapytrack://goal resource
3. Look at my streaks using the therapytrack://progress/stats resource

Then tell me:
- How many minutes I still need to reach the weekly goal
- How to spread them over the days left in the week
- Whether my current streak is at risk today

Keep suggestions realistic: sessions last at least 30 minutes.`,
						},
					},
				},
			}, nil
		})

	// Clinician review prompt
	srv.Prompt("patient_review").
		Description("Summarize linked patients' adherence for a clinician.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Patient Review",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Review my patients' progress. Please:

1. List my patients with the patients.list tool
2. For anyone below 50% of their weekly goal, open their week with therapy.week using owner_id
3. Check their streaks with therapy.stats

Summarize who is on track, who has not logged recently, and whose goal may
need adjusting with goal.set.`,
						},
					},
				},
			}, nil
		})

	return nil
}
