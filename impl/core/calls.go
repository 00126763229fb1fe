package core

import (
	"BizDevCRM/entity"
	"context"
	"time"
)

func (c *Core) LogCall(ctx context.Context, actor *entity.UserAuth, req *entity.CallLogRequest) (*entity.CallActivity, error) {
	call := entity.NewCallActivity(actor.ID, req)
	call.Timestamp = c.now()
	if err := c.repo.InsertCall(ctx, call); err != nil {
		return nil, err
	}
	return call, nil
}

// GetCallsBatch groups raw call events per user in [from, to). Every
// requested user appears, with a zero count if they made no calls.
// BD Executives only see their own calls.
func (c *Core) GetCallsBatch(ctx context.Context, actor *entity.UserAuth, userIDs []string, from, to time.Time) ([]entity.UserCalls, error) {
	if !actor.CanManage() {
		userIDs = []string{actor.ID}
	}
	if to.IsZero() {
		to = c.now()
	}
	if from.IsZero() {
		y, m, d := to.Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, to.Location())
	}

	calls, err := c.repo.FindCalls(ctx, userIDs, from, to)
	if err != nil {
		return nil, err
	}
	return groupCalls(userIDs, calls), nil
}

func groupCalls(userIDs []string, calls []entity.CallActivity) []entity.UserCalls {
	index := make(map[string]int)
	out := make([]entity.UserCalls, 0, len(userIDs))
	for _, id := range userIDs {
		if _, ok := index[id]; ok {
			continue
		}
		index[id] = len(out)
		out = append(out, entity.UserCalls{UserID: id, Calls: []entity.CallActivity{}})
	}
	for _, call := range calls {
		i, ok := index[call.UserID]
		if !ok {
			i = len(out)
			index[call.UserID] = i
			out = append(out, entity.UserCalls{UserID: call.UserID, Calls: []entity.CallActivity{}})
		}
		out[i].Calls = append(out[i].Calls, call)
		out[i].Count++
	}
	return out
}
