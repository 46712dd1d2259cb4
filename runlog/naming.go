/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package runlog

import (
	"fmt"
	"path"
	"time"

	"chainguard.dev/summeval/judge/pipeline"
)

// Naming identifies one iteration's artifact prefix: which strategy
// ran, when, and whether the run replicated a single model or spread a
// panel across model families.
type Naming struct {
	Iteration   int
	Started     time.Time
	MultiAgent  bool
	MultiFamily bool
	Mode        pipeline.Mode
}

// Prefix returns the iteration's slash-separated artifact prefix. The
// layout is the historical one downstream report tooling globs over:
// a per-strategy directory over iteration segments tagging instance
// and family multiplicity.
func (n Naming) Prefix() string {
	instances := "SInstance"
	if n.MultiAgent {
		instances = "MInstance"
	}
	families := "SFamily"
	if n.MultiFamily {
		families = "MFamily"
	}
	return path.Join(n.Mode.Postfix(), fmt.Sprintf("iteration_%d_%s_%s_%s",
		n.Iteration, n.Started.Format("20060102_150405"), instances, families))
}
