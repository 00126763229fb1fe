package repository

import (
	"BizDevCRM/entity"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertProposal(ctx context.Context, proposal *entity.Proposal) error {
	_, err := m.collection(proposalsCollection).InsertOne(ctx, proposal)
	if err != nil {
		return fmt.Errorf("mongodb insert proposal: %w", err)
	}
	return nil
}

func (m *MongoDB) GetProposal(ctx context.Context, id string) (*entity.Proposal, error) {
	var proposal entity.Proposal
	err := m.collection(proposalsCollection).FindOne(ctx, bson.D{{"_id", id}}).Decode(&proposal)
	if err != nil {
		return nil, m.findError(err)
	}
	return &proposal, nil
}

// FindProposals lists proposals, optionally for one lead, newest first.
func (m *MongoDB) FindProposals(ctx context.Context, leadID string) ([]entity.Proposal, error) {
	query := bson.D{}
	if leadID != "" {
		query = append(query, bson.E{Key: "lead_id", Value: leadID})
	}
	opts := options.Find().SetSort(bson.D{{"created_at", -1}})
	cursor, err := m.collection(proposalsCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find proposals: %w", err)
	}
	defer cursor.Close(ctx)

	var proposals []entity.Proposal
	if err = cursor.All(ctx, &proposals); err != nil {
		return nil, fmt.Errorf("mongodb decode proposals: %w", err)
	}
	return proposals, nil
}

func (m *MongoDB) UpdateProposal(ctx context.Context, proposal *entity.Proposal) error {
	_, err := m.collection(proposalsCollection).ReplaceOne(ctx, bson.D{{"_id", proposal.ID}}, proposal)
	if err != nil {
		return fmt.Errorf("mongodb replace proposal: %w", err)
	}
	return nil
}
