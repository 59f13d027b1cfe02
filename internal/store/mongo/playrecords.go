package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vodhub/internal/domain"
)

// PlayRecordsRepository persists per-user playback positions keyed by
// source+id.
type PlayRecordsRepository struct {
	collection *mongo.Collection
}

type playRecordDoc struct {
	Username      string `bson:"username"`
	Source        string `bson:"source"`
	VodID         string `bson:"vodId"`
	Title         string `bson:"title"`
	SourceName    string `bson:"sourceName"`
	Cover         string `bson:"cover"`
	Year          string `bson:"year"`
	Index         int    `bson:"index"`
	TotalEpisodes int    `bson:"totalEpisodes"`
	PlayTime      int64  `bson:"playTime"`
	TotalTime     int64  `bson:"totalTime"`
	SaveTime      int64  `bson:"saveTime"`
}

func NewPlayRecordsRepository(client *mongo.Client, dbName string) *PlayRecordsRepository {
	return &PlayRecordsRepository{collection: client.Database(dbName).Collection("playrecords")}
}

func (r *PlayRecordsRepository) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.collection == nil {
		return nil
	}
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}, {Key: "source", Value: 1}, {Key: "vodId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "username", Value: 1}, {Key: "saveTime", Value: -1}}},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, models)
	return err
}

func (r *PlayRecordsRepository) Upsert(ctx context.Context, record domain.PlayRecord) error {
	doc := toPlayRecordDoc(record)
	filter := bson.M{"username": doc.Username, "source": doc.Source, "vodId": doc.VodID}
	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *PlayRecordsRepository) Get(ctx context.Context, username, source, id string) (domain.PlayRecord, error) {
	var doc playRecordDoc
	filter := bson.M{"username": username, "source": source, "vodId": id}
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.PlayRecord{}, domain.ErrNotFound
		}
		return domain.PlayRecord{}, err
	}
	return fromPlayRecordDoc(doc), nil
}

func (r *PlayRecordsRepository) List(ctx context.Context, username string) ([]domain.PlayRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "saveTime", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []playRecordDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make([]domain.PlayRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, fromPlayRecordDoc(doc))
	}
	return records, nil
}

func (r *PlayRecordsRepository) Delete(ctx context.Context, username, source, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"username": username, "source": source, "vodId": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PlayRecordsRepository) DeleteAll(ctx context.Context, username string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"username": username})
	return err
}

func toPlayRecordDoc(p domain.PlayRecord) playRecordDoc {
	saveTime := p.SaveTime
	if saveTime.IsZero() {
		saveTime = time.Now().UTC()
	}
	return playRecordDoc{
		Username:      p.Username,
		Source:        p.Source,
		VodID:         p.ID,
		Title:         p.Title,
		SourceName:    p.SourceName,
		Cover:         p.Poster,
		Year:          p.Year,
		Index:         p.Index,
		TotalEpisodes: p.TotalEpisodes,
		PlayTime:      p.PlayTime,
		TotalTime:     p.TotalTime,
		SaveTime:      saveTime.Unix(),
	}
}

func fromPlayRecordDoc(doc playRecordDoc) domain.PlayRecord {
	return domain.PlayRecord{
		Username:      doc.Username,
		Source:        doc.Source,
		ID:            doc.VodID,
		Title:         doc.Title,
		SourceName:    doc.SourceName,
		Poster:        doc.Cover,
		Year:          doc.Year,
		Index:         doc.Index,
		TotalEpisodes: doc.TotalEpisodes,
		PlayTime:      doc.PlayTime,
		TotalTime:     doc.TotalTime,
		SaveTime:      timeFromUnix(doc.SaveTime),
	}
}
