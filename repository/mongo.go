package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"smartcampus/models"
)

// NewMongo returns a Store backed by the issues, health_reports and users
// collections of db.
func NewMongo(db *mongo.Database) *Store {
	return &Store{
		Issues: &mongoIssues{coll: db.Collection("issues")},
		Health: &mongoHealth{coll: db.Collection("health_reports")},
		Users:  &mongoUsers{coll: db.Collection("users")},
	}
}

// EnsureIndexes creates the indexes the queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	if _, err := db.Collection("issues").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: 1}},
	}); err != nil {
		return fmt.Errorf("issues index: %w", err)
	}
	if _, err := db.Collection("health_reports").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("health_reports index: %w", err)
	}
	return nil
}

type mongoIssues struct {
	coll *mongo.Collection
}

func (m *mongoIssues) List(ctx context.Context) ([]models.Issue, error) {
	cursor, err := m.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (m *mongoIssues) Get(ctx context.Context, id models.IssueID) (*models.Issue, error) {
	var issue models.Issue
	err := m.coll.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (m *mongoIssues) Insert(ctx context.Context, issue *models.Issue) error {
	if issue.ID == "" {
		issue.ID = models.IssueID(primitive.NewObjectID().Hex())
	}
	_, err := m.coll.InsertOne(ctx, issue)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (m *mongoIssues) Delete(ctx context.Context, id models.IssueID) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type mongoHealth struct {
	coll *mongo.Collection
}

func (m *mongoHealth) Insert(ctx context.Context, report models.HealthReport) error {
	_, err := m.coll.InsertOne(ctx, report)
	return err
}

func (m *mongoHealth) Since(ctx context.Context, t time.Time) ([]models.HealthReport, error) {
	cursor, err := m.coll.Find(ctx, bson.M{"createdAt": bson.M{"$gte": t}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []models.HealthReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

type mongoUsers struct {
	coll *mongo.Collection
}

func (m *mongoUsers) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	count, err := m.coll.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	_, err = m.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (m *mongoUsers) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (m *mongoUsers) ByID(ctx context.Context, id string) (*models.User, error) {
	return m.findOne(ctx, bson.M{"_id": id})
}

func (m *mongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := m.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
