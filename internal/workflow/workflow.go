// Package workflow implements the three-checkpoint approval pipeline for
// components: prototype, then SMS (sample), then PPS (pre-production sample).
// A later checkpoint can only move off pending while all earlier ones are ok,
// and regressing an earlier checkpoint resets everything after it.
package workflow

import (
	"errors"
	"fmt"
	"time"

	"catalog-service/internal/model"
)

var (
	// ErrUnknownStage is returned for stage names outside proto/sms/pps.
	ErrUnknownStage = errors.New("unknown approval stage")
	// ErrUnknownStatus is returned for status values outside pending/ok/not_ok.
	ErrUnknownStatus = errors.New("unknown approval status")
	// ErrStageLocked is returned when a stage is advanced before every
	// earlier checkpoint is ok.
	ErrStageLocked = errors.New("earlier approval stage not ok")
)

// Transition describes a requested status change for one approval stage.
type Transition struct {
	Stage   string
	Status  string
	Comment string
}

// stageOrder lists the checkpoints in pipeline order.
var stageOrder = []string{model.StageProto, model.StageSMS, model.StagePPS}

// ValidStage reports whether the stage name is one of proto/sms/pps.
func ValidStage(stage string) bool {
	for _, s := range stageOrder {
		if s == stage {
			return true
		}
	}
	return false
}

// ValidStatus reports whether the status is one of pending/ok/not_ok.
func ValidStatus(status string) bool {
	return status == model.StatusPending || status == model.StatusOK || status == model.StatusNotOK
}

// Apply validates the transition against the component's current statuses and
// mutates the component in place. Later stages are reset to pending when an
// earlier stage moves away from ok.
func Apply(c *model.Component, tr Transition, now time.Time) error {
	if !ValidStage(tr.Stage) {
		return fmt.Errorf("%w: %q", ErrUnknownStage, tr.Stage)
	}
	if !ValidStatus(tr.Status) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, tr.Status)
	}

	// A stage may only leave pending while every stage before it is ok.
	if tr.Status != model.StatusPending {
		for _, prev := range stagesBefore(tr.Stage) {
			if stageStatus(c, prev) != model.StatusOK {
				return fmt.Errorf("%w: cannot set %s status while %s is not ok", ErrStageLocked, tr.Stage, prev)
			}
		}
	}

	setStage(c, tr.Stage, tr.Status, tr.Comment, now)

	// Regression cascades: anything after a non-ok stage goes back to pending.
	if tr.Status != model.StatusOK {
		for _, later := range stagesAfter(tr.Stage) {
			setStage(c, later, model.StatusPending, "", now)
		}
	}
	return nil
}

func stagesBefore(stage string) []string {
	for i, s := range stageOrder {
		if s == stage {
			return stageOrder[:i]
		}
	}
	return nil
}

func stagesAfter(stage string) []string {
	for i, s := range stageOrder {
		if s == stage {
			return stageOrder[i+1:]
		}
	}
	return nil
}

func stageStatus(c *model.Component, stage string) string {
	switch stage {
	case model.StageProto:
		return c.ProtoStatus
	case model.StageSMS:
		return c.SMSStatus
	default:
		return c.PPSStatus
	}
}

// setStage writes status, comment and date for one stage. Pending clears the
// date; ok and not_ok stamp it.
func setStage(c *model.Component, stage, status, comment string, now time.Time) {
	var date *time.Time
	if status != model.StatusPending {
		t := now
		date = &t
	}
	switch stage {
	case model.StageProto:
		c.ProtoStatus = status
		c.ProtoDate = date
		c.ProtoComment = comment
	case model.StageSMS:
		c.SMSStatus = status
		c.SMSDate = date
		c.SMSComment = comment
	case model.StagePPS:
		c.PPSStatus = status
		c.PPSDate = date
		c.PPSComment = comment
	}
}

// Reset puts all three stages back to pending. Used when duplicating a
// component.
func Reset(c *model.Component) {
	now := time.Now()
	setStage(c, model.StageProto, model.StatusPending, "", now)
	setStage(c, model.StageSMS, model.StatusPending, "", now)
	setStage(c, model.StagePPS, model.StatusPending, "", now)
}
