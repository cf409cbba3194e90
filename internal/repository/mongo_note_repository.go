package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"notes-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoNote struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	domain.Note `bson:",inline"`
}

func (d *mongoNote) toDomain() *domain.Note {
	note := d.Note
	note.ID = d.ID.Hex()
	return &note
}

type mongoNoteRepository struct {
	coll *mongo.Collection
	log  *slog.Logger
}

func NewMongoNoteRepository(coll *mongo.Collection, log *slog.Logger) NoteRepository {
	return &mongoNoteRepository{
		coll: coll,
		log:  log.With("component", "mongo_note_repository"),
	}
}

func (r *mongoNoteRepository) Insert(ctx context.Context, note *domain.Note) (string, error) {
	res, err := r.coll.InsertOne(ctx, &mongoNote{Note: *note})
	if err != nil {
		return "", fmt.Errorf("failed to create note: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to create note: unexpected id type %T", res.InsertedID)
	}

	return oid.Hex(), nil
}

func (r *mongoNoteRepository) Find(ctx context.Context, filter domain.NoteFilter) ([]*domain.Note, error) {
	cursor, err := r.coll.Find(ctx, mongoFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	var docs []mongoNote
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}

	notes := make([]*domain.Note, 0, len(docs))
	for i := range docs {
		notes = append(notes, docs[i].toDomain())
	}

	return notes, nil
}

func (r *mongoNoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc mongoNote
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *mongoNoteRepository) Update(ctx context.Context, id string, patch *domain.NotePatch) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	update := mongoUpdate(patch)
	if update == nil {
		// Nothing to write; still report whether the note exists.
		_, err := r.FindByID(ctx, id)
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNoteNotFound
	}

	return nil
}

func (r *mongoNoteRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNoteNotFound
	}

	return nil
}

func (r *mongoNoteRepository) Clear(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to clear collection: %w", err)
	}

	r.log.Warn("Collection cleared", "collection", r.coll.Name(), "deleted", res.DeletedCount)
	return res.DeletedCount, nil
}

func (r *mongoNoteRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domain.ErrInvalidNoteID, id)
	}
	return oid, nil
}

// mongoFilter matches a tag against any element of the tags array.
func mongoFilter(f domain.NoteFilter) bson.M {
	filter := bson.M{}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.InputType != "" {
		filter["input_type"] = f.InputType
	}
	return filter
}

func mongoUpdate(patch *domain.NotePatch) bson.M {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}
	return bson.M{"$set": bson.M(fields)}
}
