package repository

import (
	"BizDevCRM/entity"
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertLead(ctx context.Context, lead *entity.Lead) error {
	_, err := m.collection(leadsCollection).InsertOne(ctx, lead)
	if err != nil {
		return fmt.Errorf("mongodb insert lead: %w", err)
	}
	return nil
}

func (m *MongoDB) GetLead(ctx context.Context, id string) (*entity.Lead, error) {
	var lead entity.Lead
	err := m.collection(leadsCollection).FindOne(ctx, bson.D{{"_id", id}}).Decode(&lead)
	if err != nil {
		return nil, m.findError(err)
	}
	return &lead, nil
}

func leadQuery(filter entity.LeadFilter) bson.D {
	query := bson.D{}
	if filter.Stage != "" {
		query = append(query, bson.E{Key: "stage", Value: filter.Stage})
	}
	if filter.AssignedTo != "" {
		query = append(query, bson.E{Key: "assigned_to", Value: filter.AssignedTo})
	}
	if filter.VisibleTo != "" {
		query = append(query, bson.E{Key: "$or", Value: bson.A{
			bson.D{{"assigned_to", filter.VisibleTo}},
			bson.D{{"assigned_by", filter.VisibleTo}},
		}})
	}
	if filter.Search != "" {
		pattern := bson.D{{"$regex", regexp.QuoteMeta(filter.Search)}, {"$options", "i"}}
		search := bson.E{Key: "$or", Value: bson.A{
			bson.D{{"company_name", pattern}},
			bson.D{{"contact_name", pattern}},
			bson.D{{"industry_name", pattern}},
			bson.D{{"contact_email", pattern}},
		}}
		if filter.VisibleTo != "" {
			// two $or clauses have to be combined under $and
			visible := query[len(query)-1]
			query = append(query[:len(query)-1], bson.E{Key: "$and", Value: bson.A{
				bson.D{visible},
				bson.D{search},
			}})
		} else {
			query = append(query, search)
		}
	}
	return query
}

func (m *MongoDB) FindLeads(ctx context.Context, filter entity.LeadFilter) ([]entity.Lead, error) {
	opts := options.Find().SetSort(bson.D{{"updated_at", -1}})
	cursor, err := m.collection(leadsCollection).Find(ctx, leadQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find leads: %w", err)
	}
	defer cursor.Close(ctx)

	var leads []entity.Lead
	if err = cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("mongodb decode leads: %w", err)
	}
	return leads, nil
}

// UpdateLead writes the scalar fields of lead if the stored version still
// equals expectedVersion. Embedded remarks and contacts are left alone.
// lead.Version must already carry the next version.
func (m *MongoDB) UpdateLead(ctx context.Context, lead *entity.Lead, expectedVersion int64) error {
	filter := bson.D{{"_id", lead.ID}, {"version", expectedVersion}}
	update := bson.D{{"$set", bson.D{
		{"company_name", lead.CompanyName},
		{"contact_name", lead.ContactName},
		{"contact_email", lead.ContactEmail},
		{"contact_phone", lead.ContactPhone},
		{"industry_name", lead.IndustryName},
		{"stage", lead.Stage},
		{"value", lead.Value},
		{"source", lead.Source},
		{"assigned_to", lead.AssignedTo},
		{"version", lead.Version},
		{"updated_at", lead.UpdatedAt},
	}}}
	result, err := m.collection(leadsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb update lead: %w", err)
	}
	if result.MatchedCount == 0 {
		return entity.ErrVersionConflict
	}
	return nil
}

func (m *MongoDB) DeleteLead(ctx context.Context, id string) (bool, error) {
	result, err := m.collection(leadsCollection).DeleteOne(ctx, bson.D{{"_id", id}})
	if err != nil {
		return false, fmt.Errorf("mongodb delete lead: %w", err)
	}
	return result.DeletedCount > 0, nil
}

// updateLeadArray applies an atomic array update and returns the lead after it.
func (m *MongoDB) updateLeadArray(ctx context.Context, filter, update bson.D) (*entity.Lead, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var lead entity.Lead
	err := m.collection(leadsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&lead)
	if err != nil {
		return nil, m.findError(err)
	}
	return &lead, nil
}

func (m *MongoDB) PushRemark(ctx context.Context, leadID string, remark *entity.Remark) ([]entity.Remark, error) {
	lead, err := m.updateLeadArray(ctx,
		bson.D{{"_id", leadID}},
		bson.D{
			{"$push", bson.D{{"remarks", remark}}},
			{"$set", bson.D{{"updated_at", time.Now()}}},
		},
	)
	if err != nil || lead == nil {
		return nil, err
	}
	return lead.Remarks, nil
}

// PullRemark removes one remark; a nil slice means the lead or remark was not found.
func (m *MongoDB) PullRemark(ctx context.Context, leadID, remarkID string) ([]entity.Remark, error) {
	lead, err := m.updateLeadArray(ctx,
		bson.D{{"_id", leadID}, {"remarks.id", remarkID}},
		bson.D{
			{"$pull", bson.D{{"remarks", bson.D{{"id", remarkID}}}}},
			{"$set", bson.D{{"updated_at", time.Now()}}},
		},
	)
	if err != nil || lead == nil {
		return nil, err
	}
	if lead.Remarks == nil {
		lead.Remarks = []entity.Remark{}
	}
	return lead.Remarks, nil
}

func (m *MongoDB) PushContact(ctx context.Context, leadID string, contact *entity.PointOfContact) ([]entity.PointOfContact, error) {
	lead, err := m.updateLeadArray(ctx,
		bson.D{{"_id", leadID}},
		bson.D{
			{"$push", bson.D{{"points_of_contact", contact}}},
			{"$set", bson.D{{"updated_at", time.Now()}}},
		},
	)
	if err != nil || lead == nil {
		return nil, err
	}
	return lead.PointsOfContact, nil
}

func (m *MongoDB) PullContact(ctx context.Context, leadID, contactID string) ([]entity.PointOfContact, error) {
	lead, err := m.updateLeadArray(ctx,
		bson.D{{"_id", leadID}, {"points_of_contact.id", contactID}},
		bson.D{
			{"$pull", bson.D{{"points_of_contact", bson.D{{"id", contactID}}}}},
			{"$set", bson.D{{"updated_at", time.Now()}}},
		},
	)
	if err != nil || lead == nil {
		return nil, err
	}
	if lead.PointsOfContact == nil {
		lead.PointsOfContact = []entity.PointOfContact{}
	}
	return lead.PointsOfContact, nil
}

// CountLeads is used by the admin tool.
func (m *MongoDB) CountLeads(ctx context.Context) (int64, error) {
	count, err := m.collection(leadsCollection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("mongodb count leads: %w", err)
	}
	return count, nil
}
