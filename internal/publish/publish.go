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

// Package publish uploads trend analysis outputs to Cloud Storage and
// announces the resulting badge status on Pub/Sub.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/golang/glog"
)

// Object is one output file to upload.
type Object struct {
	Name        string
	ContentType string
	Data        []byte
	// Badge marks the status badge; its object path is announced to the
	// notifier.
	Badge bool
}

// Uploader stores objects.
type Uploader interface {
	Upload(ctx context.Context, objPath string, obj Object, metadata map[string]string) error
}

// Notifier delivers badge status messages.
type Notifier interface {
	Notify(ctx context.Context, data []byte) error
}

// BadgeState is the message sent to the notifier, in the format consumed by
// badge status subscribers.
type BadgeState struct {
	Path   string
	Status string
}

// Publisher uploads the outputs of one analysis under Prefix/<analysis id>/.
// Either Uploader or Notifier may be nil.
type Publisher struct {
	Uploader Uploader
	Notifier Notifier
	Prefix   string

	// Attempts is the number of tries per upload or notification.
	Attempts int
	// Backoff is the pause between tries.
	Backoff time.Duration
}

// ObjectPath returns where an output of the analysis is stored.
func (p *Publisher) ObjectPath(analysisID, name string) string {
	return path.Join(p.Prefix, analysisID, name)
}

// Publish uploads every object with the analysis id and status as metadata,
// then notifies the badge status if a badge was uploaded.  Upload errors do not stop the remaining
// uploads; all errors are returned joined.
func (p *Publisher) Publish(ctx context.Context, analysisID, status string, objs []Object) error {
	var errs []error
	var badgePath string

	if p.Uploader != nil {
		for _, obj := range objs {
			objPath := p.ObjectPath(analysisID, obj.Name)
			md := map[string]string{
				"analysis": analysisID,
				"status":   status,
			}
			err := p.withRetry(ctx, "Upload "+objPath, func() error {
				return p.Uploader.Upload(ctx, objPath, obj, md)
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("uploading %s: %w", obj.Name, err))
				continue
			}
			glog.Infof("Uploaded %s", objPath)
			if obj.Badge {
				badgePath = objPath
			}
		}
	}

	switch {
	case p.Notifier == nil:
	case badgePath == "":
		glog.Warningf("No badge uploaded for analysis %s, skipping badge status", analysisID)
	default:
		data, err := json.Marshal(&BadgeState{Path: badgePath, Status: status})
		if err != nil {
			return errors.Join(append(errs, err)...)
		}
		err = p.withRetry(ctx, "Notify", func() error {
			return p.Notifier.Notify(ctx, data)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("publishing badge status: %w", err))
		}
	}
	return errors.Join(errs...)
}

// withRetry calls f until it succeeds, the attempts run out or ctx is done.
func (p *Publisher) withRetry(ctx context.Context, name string, f func() error) error {
	attempts := max(p.Attempts, 1)
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		glog.Infof("Retry %d of %q, error: %v", i+1, name, err)
		if i+1 == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Backoff):
		}
	}
	return err
}
