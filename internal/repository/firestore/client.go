package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// NewClient opens a Firestore client. Without a credentials file it falls back
// to application default credentials, or the emulator when
// FIRESTORE_EMULATOR_HOST is set.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return firestore.NewClient(ctx, projectID, opts...)
}
