package events

import (
	"BizDevCRM/entity"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoutingKey(t *testing.T) {
	log := &entity.ActivityLog{Entity: entity.EntityLead, Action: entity.ActionRemarkAdded}
	assert.Equal(t, "activity.lead.remark_added", RoutingKey(log))
}
