package docstore

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Firestore struct {
	client *firestore.Client
}

func NewFirestore(ctx context.Context, projectID, credentialsFile string) (*Firestore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, err
	}
	return &Firestore{client: client}, nil
}

func (f *Firestore) Get(ctx context.Context, collection, key string) (Document, error) {
	snap, err := f.client.Collection(collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !snap.Exists() {
		return nil, ErrNotFound
	}
	return Document(snap.Data()), nil
}

func (f *Firestore) Set(ctx context.Context, collection, key string, doc Document) error {
	_, err := f.client.Collection(collection).Doc(key).Set(ctx, map[string]interface{}(doc))
	return err
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
