// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package publish

import (
	"context"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
)

// GCSUploader writes objects to a Cloud Storage bucket.
type GCSUploader struct {
	client *storage.Client
	bucket string
}

// NewGCSUploader connects to Cloud Storage with the default credentials.
func NewGCSUploader(ctx context.Context, bucket string) (*GCSUploader, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSUploader{client: client, bucket: bucket}, nil
}

// Upload writes obj to objPath in the bucket.
func (u *GCSUploader) Upload(ctx context.Context, objPath string, obj Object, metadata map[string]string) error {
	w := u.client.Bucket(u.bucket).Object(objPath).NewWriter(ctx)
	w.ContentType = obj.ContentType
	w.CacheControl = "no-cache,max-age=0"
	w.Metadata = metadata
	if _, err := w.Write(obj.Data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Close releases the storage client.
func (u *GCSUploader) Close() error {
	return u.client.Close()
}

// PubSubNotifier publishes messages to a Pub/Sub topic.
type PubSubNotifier struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewPubSubNotifier connects to the topic in project.
func NewPubSubNotifier(ctx context.Context, project, topic string) (*PubSubNotifier, error) {
	client, err := pubsub.NewClient(ctx, project)
	if err != nil {
		return nil, err
	}
	return &PubSubNotifier{client: client, topic: client.Topic(topic)}, nil
}

// Notify publishes data and waits for the server to acknowledge it.
func (n *PubSubNotifier) Notify(ctx context.Context, data []byte) error {
	_, err := n.topic.Publish(ctx, &pubsub.Message{Data: data}).Get(ctx)
	return err
}

// Close flushes pending messages and releases the client.
func (n *PubSubNotifier) Close() error {
	n.topic.Stop()
	return n.client.Close()
}
