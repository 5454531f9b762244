package mongo

import (
	"context"
	"time"

	"accounts/config"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/domain/repository"
	"accounts/internal/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// userDocument is the stored shape of a user in the users collection.
type userDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	FirstName   string             `bson:"firstName"`
	LastName    string             `bson:"lastName"`
	Email       string             `bson:"email"`
	Password    string             `bson:"password"`
	PhoneNumber string             `bson:"phoneNumber"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

// userRepository implements repository.UserRepository on a MongoDB collection.
type userRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *mongo.Database, cfg *config.Config) repository.UserRepository {
	return newUserRepository(db.Collection(cfg.Mongo.Collection))
}

func newUserRepository(coll *mongo.Collection) *userRepository {
	return &userRepository{
		coll: coll,
		now:  time.Now,
	}
}

// Create inserts the user as a new document with a fresh ObjectID.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	doc := fromUserDomain(user)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = repo.now().UTC().Truncate(time.Millisecond)

	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return domainerrors.NewStoreError(err, "failed to create user")
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = doc.CreatedAt

	return nil
}

// FindOne returns the first document, in natural order, matching every non-empty filter field.
// An empty filter matches nothing.
func (repo *userRepository) FindOne(ctx context.Context, filter repository.UserFilter) (*entity.User, error) {
	if filter.IsZero() {
		return nil, repository.ErrUserNotFound
	}

	query := bson.D{}
	if filter.ID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.ID)
		if err != nil {
			return nil, repository.ErrUserNotFound
		}
		query = append(query, bson.E{Key: "_id", Value: oid})
	}
	if filter.Email != "" {
		query = append(query, bson.E{Key: "email", Value: filter.Email})
	}

	var doc userDocument
	if err := repo.coll.FindOne(ctx, query).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewStoreError(err, "failed to find user")
	}

	return toUserDomain(&doc), nil
}

// FindAll returns every document in natural order.
func (repo *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	cursor, err := repo.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, domainerrors.NewStoreError(err, "failed to list users")
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domainerrors.NewStoreError(err, "failed to decode users")
	}

	users := make([]*entity.User, 0, len(docs))
	for i := range docs {
		users = append(users, toUserDomain(&docs[i]))
	}

	return users, nil
}

func fromUserDomain(user *entity.User) *userDocument {
	return &userDocument{
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Password:    user.PasswordHash,
		PhoneNumber: user.PhoneNumber,
		CreatedAt:   user.CreatedAt,
	}
}

func toUserDomain(doc *userDocument) *entity.User {
	return &entity.User{
		ID:           doc.ID.Hex(),
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Email:        doc.Email,
		PasswordHash: doc.Password,
		PhoneNumber:  doc.PhoneNumber,
		CreatedAt:    doc.CreatedAt,
	}
}
