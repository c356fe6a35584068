package irobot_create_msgs

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edwinhayes/zteleop/cdr"
)

const DockSendGoalRequestTypeName = "irobot_create_msgs::action::dds_::Dock_SendGoal_Request_"

// DockSendGoalRequest asks the base to drive onto its dock. The goal
// itself has no fields; GoalID identifies the action instance.
type DockSendGoalRequest struct {
	GoalID uuid.UUID
}

// NewDockSendGoalRequest returns a request with a random goal id.
func NewDockSendGoalRequest() DockSendGoalRequest {
	return DockSendGoalRequest{GoalID: uuid.New()}
}

func (m *DockSendGoalRequest) TypeName() string {
	return DockSendGoalRequestTypeName
}

func (m *DockSendGoalRequest) Serialize(e *cdr.Encoder) error {
	if err := e.WriteOctets(m.GoalID[:]); err != nil {
		return errors.Wrap(err, "goal_id")
	}
	// empty structures take one byte on the wire
	if err := e.WriteUint8(0); err != nil {
		return errors.Wrap(err, "goal")
	}
	return nil
}

func (m *DockSendGoalRequest) Deserialize(d *cdr.Decoder) error {
	id, err := d.ReadOctets(len(m.GoalID))
	if err != nil {
		return errors.Wrap(err, "goal_id")
	}
	copy(m.GoalID[:], id)
	if _, err := d.ReadUint8(); err != nil {
		return errors.Wrap(err, "goal")
	}
	return nil
}
