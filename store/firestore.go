package store

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"nearby-search-system/search"
)

// FirestoreStore keeps documents in a Firestore collection. The ordered
// prefix range query maps directly onto OrderBy + StartAt + EndAt.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStore creates a Firestore client, using the credentials file
// from GOOGLE_APPLICATION_CREDENTIALS when present and default credentials
// otherwise.
func NewFirestoreStore(ctx context.Context, projectID, collection string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if credentialsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err == nil {
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		} else {
			log.Printf("Credentials file not found: %s, trying default authentication", credentialsFile)
		}
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	log.Printf("Firestore client initialized for project: %s", projectID)

	return &FirestoreStore{client: client, collection: collection}, nil
}

func (s *FirestoreStore) Put(ctx context.Context, id string, fields map[string]interface{}) error {
	_, err := s.client.Collection(s.collection).Doc(id).Set(ctx, fields)
	return err
}

func (s *FirestoreStore) Get(ctx context.Context, id string) (map[string]interface{}, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return snap.Data(), nil
}

func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.Collection(s.collection).Doc(id).Delete(ctx)
	return err
}

// QueryRange returns documents whose field value lies in [start, end],
// ordered ascending by that field.
func (s *FirestoreStore) QueryRange(ctx context.Context, field, start, end string) ([]search.Document, error) {
	snaps, err := s.client.Collection(s.collection).
		OrderBy(field, firestore.Asc).
		StartAt(start).
		EndAt(end).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, err
	}

	docs := make([]search.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, search.Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
