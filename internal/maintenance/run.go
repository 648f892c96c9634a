// wardrive-maint - coverage service maintenance trigger
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package maintenance

import (
	"context"

	"github.com/rs/zerolog"
)

// Outcome pairs a call's Result with its error.
type Outcome struct {
	Result *Result
	Err    error
}

// Run performs consolidate and then clean-up, logging each outcome. Both
// calls are always attempted; failures are reported, never returned.
func Run(ctx context.Context, c *Client, maxAgeDays int, logger zerolog.Logger) []Outcome {
	logger.Info().Msgf("Using service host: %s", c.BaseURL())

	var outcomes []Outcome

	res, err := c.Consolidate(ctx, maxAgeDays)
	report(logger, "Consolidate", res, err)
	outcomes = append(outcomes, Outcome{Result: res, Err: err})

	res, err = c.CleanUp(ctx, CleanupRepeaters)
	report(logger, "Clean-up", res, err)
	outcomes = append(outcomes, Outcome{Result: res, Err: err})

	return outcomes
}

func report(logger zerolog.Logger, label string, res *Result, err error) {
	if err != nil {
		ev := logger.Error()
		if res != nil {
			ev = ev.Str("request_id", res.RequestID)
			if res.StatusCode != 0 {
				ev = ev.Int("status", res.StatusCode)
			}
		}
		ev.Msgf("%s failed: %v", label, err)
		return
	}
	logger.Info().
		Str("request_id", res.RequestID).
		Msgf("%s returned %s, response: %d", label, res.PayloadString(), res.StatusCode)
}
