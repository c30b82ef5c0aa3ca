package models

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestApplicationStatusIsTerminal(t *testing.T) {
	terminal := map[ApplicationStatus]bool{
		StatusRejected:      true,
		StatusOfferAccepted: true,
		StatusOfferDeclined: true,
	}

	for _, s := range ApplicationStatuses {
		assert.Check(t, s.IsValid(), "status %s", s)
		assert.Equal(t, s.IsTerminal(), terminal[s], "status %s", s)
	}

	assert.Check(t, !ApplicationStatus("GHOSTED").IsValid())
	assert.Check(t, !ApplicationStatus("GHOSTED").IsTerminal())
}
