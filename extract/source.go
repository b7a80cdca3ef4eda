// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	ErrBucketNotFound = errors.New("bucket not found")
	ErrStatus         = errors.New("status code is invalid")
)

// Source produces the raw bytes of the sales extract. The loader does not
// care where the extract lives; it only consumes the stream.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// ObjectStoreSource reads the extract from an S3-compatible object store.
type ObjectStoreSource struct {
	Bucket string
	Key    string

	client *minio.Client
}

// NewObjectStoreSource builds a source from the minio.* configuration keys.
func NewObjectStoreSource() (*ObjectStoreSource, error) {
	client, err := minio.New(viper.GetString("minio.endpoint"), &minio.Options{
		Creds: credentials.NewStaticV4(
			viper.GetString("minio.access_key"),
			viper.GetString("minio.secret_key"), ""),
		Secure: viper.GetBool("minio.secure"),
	})
	if err != nil {
		return nil, err
	}

	return &ObjectStoreSource{
		Bucket: viper.GetString("minio.bucket"),
		Key:    viper.GetString("minio.object_key"),
		client: client,
	}, nil
}

func (source *ObjectStoreSource) Open(ctx context.Context) (io.ReadCloser, error) {
	exists, err := source.client.BucketExists(ctx, source.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		log.Error().Str("BucketName", source.Bucket).Msg("bucket does not exist")
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, source.Bucket)
	}

	log.Info().Str("BucketName", source.Bucket).Str("ObjectKey", source.Key).Msg("downloading sales extract from object store")

	obj, err := source.client.GetObject(ctx, source.Bucket, source.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	return obj, nil
}

// FileSource reads the extract from the local filesystem. Mostly useful for
// ad-hoc backfills and testing.
type FileSource struct {
	Path string
}

func (source *FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	return os.Open(source.Path)
}

// HTTPSource fetches the extract over plain HTTP(S), e.g. from a pre-signed
// object URL.
type HTTPSource struct {
	URL string
}

func (source *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	client := resty.New()
	resp, err := client.R().SetContext(ctx).Get(source.URL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	return io.NopCloser(bytes.NewReader(resp.Body())), nil
}
