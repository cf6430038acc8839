package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rifat402/courses-app/internal/app/models"
	"github.com/Rifat402/courses-app/internal/pkg/logger"
)

const countersCollection = "counters"

// MongoDatabaseProvider supplies the shared database handle
type MongoDatabaseProvider interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

// MongoCourseRepository stores courses as documents in a MongoDB collection.
// Ids come from a counter document incremented atomically with $inc.
type MongoCourseRepository struct {
	provider   MongoDatabaseProvider
	collection string
	log        zerolog.Logger
}

// NewMongoCourseRepository creates a new MongoCourseRepository
func NewMongoCourseRepository(provider MongoDatabaseProvider, collection string) *MongoCourseRepository {
	return &MongoCourseRepository{
		provider:   provider,
		collection: collection,
		log:        logger.Component("course_repository").With().Str("driver", "mongo").Logger(),
	}
}

type sequenceDoc struct {
	Seq int64 `bson:"seq"`
}

type idOnlyDoc struct {
	ID int64 `bson:"id"`
}

// hideInternalID keeps the store's _id out of every document handed back
var hideInternalID = bson.M{models.InternalIDField: 0}

func (r *MongoCourseRepository) courses(ctx context.Context) (*mongo.Collection, error) {
	database, err := r.provider.Database(ctx)
	if err != nil {
		return nil, err
	}
	return database.Collection(r.collection), nil
}

// Prepare creates the unique index on id and moves the counter up to the
// highest existing id, so documents inserted before the counter existed keep
// the max+1 numbering.
func (r *MongoCourseRepository) Prepare(ctx context.Context) error {
	database, err := r.provider.Database(ctx)
	if err != nil {
		return err
	}
	coll := database.Collection(r.collection)

	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: models.CourseIDField, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("courses_id_unique"),
	})
	if err != nil {
		r.log.Error().Err(err).Msg("Error creating unique course id index")
		return fmt.Errorf("error creating course id index: %w", err)
	}

	var last idOnlyDoc
	err = coll.FindOne(ctx, bson.D{},
		options.FindOne().
			SetSort(bson.D{{Key: models.CourseIDField, Value: -1}}).
			SetProjection(bson.M{models.CourseIDField: 1}),
	).Decode(&last)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		r.log.Error().Err(err).Msg("Error reading highest course id")
		return fmt.Errorf("error reading highest course id: %w", err)
	}

	_, err = database.Collection(countersCollection).UpdateOne(ctx,
		bson.M{models.InternalIDField: r.collection},
		bson.M{"$max": bson.M{"seq": last.ID}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		r.log.Error().Err(err).Msg("Error syncing course id sequence")
		return fmt.Errorf("error syncing course id sequence: %w", err)
	}

	r.log.Info().Int64("highestID", last.ID).Msg("Course id sequence synced")
	return nil
}

// Ping checks the store connection
func (r *MongoCourseRepository) Ping(ctx context.Context) error {
	database, err := r.provider.Database(ctx)
	if err != nil {
		return err
	}
	return database.Client().Ping(ctx, nil)
}

// FindAll retrieves every course in the collection's natural order
func (r *MongoCourseRepository) FindAll(ctx context.Context) ([]models.Course, error) {
	coll, err := r.courses(ctx)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetProjection(hideInternalID))
	if err != nil {
		r.log.Error().Err(err).Msg("Error executing find all courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		r.log.Error().Err(err).Msg("Error decoding course documents")
		return nil, fmt.Errorf("error decoding courses: %w", err)
	}

	courses := make([]models.Course, 0, len(docs))
	for _, doc := range docs {
		courses = append(courses, models.Course(doc))
	}
	return courses, nil
}

// FindByID retrieves a course with a point query on id
func (r *MongoCourseRepository) FindByID(ctx context.Context, id int64) (models.Course, error) {
	coll, err := r.courses(ctx)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	err = coll.FindOne(ctx, bson.M{models.CourseIDField: id},
		options.FindOne().SetProjection(hideInternalID),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.log.Error().Err(err).Int64("courseID", id).Msg("Error finding course")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	return models.Course(doc), nil
}

// Create allocates the next id and inserts the course under it
func (r *MongoCourseRepository) Create(ctx context.Context, fields models.Course) (int64, error) {
	database, err := r.provider.Database(ctx)
	if err != nil {
		return 0, err
	}

	id, err := r.nextID(ctx, database)
	if err != nil {
		return 0, err
	}

	doc := bson.M(fields.Fields().WithID(id))
	if _, err := database.Collection(r.collection).InsertOne(ctx, doc); err != nil {
		r.log.Error().Err(err).Int64("courseID", id).Msg("Error inserting course")
		return 0, fmt.Errorf("error creating course: %w", err)
	}

	return id, nil
}

func (r *MongoCourseRepository) nextID(ctx context.Context, database *mongo.Database) (int64, error) {
	var seq sequenceDoc
	err := database.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{models.InternalIDField: r.collection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&seq)
	if err != nil {
		r.log.Error().Err(err).Msg("Error allocating course id")
		return 0, fmt.Errorf("error allocating course id: %w", err)
	}
	return seq.Seq, nil
}

// Update applies $set with the supplied fields and returns the new document
func (r *MongoCourseRepository) Update(ctx context.Context, id int64, patch models.Course) (models.Course, error) {
	patch = patch.Fields()
	// $set rejects an empty document; nothing to change means a plain read
	if len(patch) == 0 {
		return r.FindByID(ctx, id)
	}

	coll, err := r.courses(ctx)
	if err != nil {
		return nil, err
	}

	var doc bson.M
	err = coll.FindOneAndUpdate(ctx,
		bson.M{models.CourseIDField: id},
		bson.M{"$set": bson.M(patch)},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(hideInternalID),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		r.log.Error().Err(err).Int64("courseID", id).Msg("Error updating course")
		return nil, fmt.Errorf("error updating course: %w", err)
	}

	return models.Course(doc), nil
}

// Delete removes the course and reports ErrNotFound when nothing was removed
func (r *MongoCourseRepository) Delete(ctx context.Context, id int64) error {
	coll, err := r.courses(ctx)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{models.CourseIDField: id})
	if err != nil {
		r.log.Error().Err(err).Int64("courseID", id).Msg("Error deleting course")
		return fmt.Errorf("error deleting course: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
