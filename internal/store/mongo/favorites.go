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

// FavoritesRepository persists per-user bookmarks keyed by source+id.
type FavoritesRepository struct {
	collection *mongo.Collection
}

type favoriteDoc struct {
	Username      string `bson:"username"`
	Source        string `bson:"source"`
	VodID         string `bson:"vodId"`
	Title         string `bson:"title"`
	SourceName    string `bson:"sourceName"`
	Cover         string `bson:"cover"`
	Year          string `bson:"year"`
	TotalEpisodes int    `bson:"totalEpisodes"`
	SaveTime      int64  `bson:"saveTime"`
}

func NewFavoritesRepository(client *mongo.Client, dbName string) *FavoritesRepository {
	return &FavoritesRepository{collection: client.Database(dbName).Collection("favorites")}
}

func Connect(ctx context.Context, uri string, extra ...*options.ClientOptions) (*mongo.Client, error) {
	opts := append([]*options.ClientOptions{options.Client().ApplyURI(uri)}, extra...)
	client, err := mongo.Connect(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *FavoritesRepository) EnsureIndexes(ctx context.Context) error {
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

func (r *FavoritesRepository) Upsert(ctx context.Context, favorite domain.Favorite) error {
	doc := toFavoriteDoc(favorite)
	filter := bson.M{"username": doc.Username, "source": doc.Source, "vodId": doc.VodID}
	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *FavoritesRepository) Get(ctx context.Context, username, source, id string) (domain.Favorite, error) {
	var doc favoriteDoc
	filter := bson.M{"username": username, "source": source, "vodId": id}
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Favorite{}, domain.ErrNotFound
		}
		return domain.Favorite{}, err
	}
	return fromFavoriteDoc(doc), nil
}

func (r *FavoritesRepository) List(ctx context.Context, username string) ([]domain.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "saveTime", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []favoriteDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	favorites := make([]domain.Favorite, 0, len(docs))
	for _, doc := range docs {
		favorites = append(favorites, fromFavoriteDoc(doc))
	}
	return favorites, nil
}

func (r *FavoritesRepository) Delete(ctx context.Context, username, source, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"username": username, "source": source, "vodId": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAll clears every bookmark of one user.
func (r *FavoritesRepository) DeleteAll(ctx context.Context, username string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"username": username})
	return err
}

func toFavoriteDoc(f domain.Favorite) favoriteDoc {
	saveTime := f.SaveTime
	if saveTime.IsZero() {
		saveTime = time.Now().UTC()
	}
	return favoriteDoc{
		Username:      f.Username,
		Source:        f.Source,
		VodID:         f.ID,
		Title:         f.Title,
		SourceName:    f.SourceName,
		Cover:         f.Poster,
		Year:          f.Year,
		TotalEpisodes: f.TotalEpisodes,
		SaveTime:      saveTime.Unix(),
	}
}

func fromFavoriteDoc(doc favoriteDoc) domain.Favorite {
	return domain.Favorite{
		Username:      doc.Username,
		Source:        doc.Source,
		ID:            doc.VodID,
		Title:         doc.Title,
		SourceName:    doc.SourceName,
		Poster:        doc.Cover,
		Year:          doc.Year,
		TotalEpisodes: doc.TotalEpisodes,
		SaveTime:      timeFromUnix(doc.SaveTime),
	}
}

func timeFromUnix(value int64) time.Time {
	return time.Unix(value, 0).UTC()
}
