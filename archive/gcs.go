package archive

import (
	"context"
	"encoding/gob"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

const objectPrefix = "sessions/"

func objectName(name string) string { return objectPrefix + name + ".gob" }

// {{{ PutGCS

// PutGCS writes the session into the bucket, as a gob-encoded blob
// under sessions/<name>.gob.
func PutGCS(ctx context.Context, bucketName string, s *Session) error {
	client, err := storage.NewClient(ctx)
	if err != nil { return err }
	defer client.Close()

	blob,err := s.ToBlob()
	if err != nil { return err }

	w := client.Bucket(bucketName).Object(objectName(s.Name)).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	if err := gob.NewEncoder(w).Encode(blob); err != nil {
		w.Close()
		return fmt.Errorf("GCS-Write [gs://%s]%s: %v", bucketName, objectName(s.Name), err)
	}
	return w.Close()
}

// }}}
// {{{ GetGCS

func GetGCS(ctx context.Context, bucketName, name string) (*Session, error) {
	client, err := storage.NewClient(ctx)
	if err != nil { return nil, err }
	defer client.Close()

	r,err := client.Bucket(bucketName).Object(objectName(name)).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("GCS-Open [gs://%s]%s: %v", bucketName, objectName(name), err)
	}
	defer r.Close()

	blob := SessionBlob{}
	if err := gob.NewDecoder(r).Decode(&blob); err != nil {
		return nil, fmt.Errorf("GCS-Decode [gs://%s]%s: %v", bucketName, objectName(name), err)
	}
	return blob.ToSession()
}

// }}}
// {{{ ListGCS

// ListGCS returns the names of the sessions stored in the bucket.
func ListGCS(ctx context.Context, bucketName string) ([]string, error) {
	client, err := storage.NewClient(ctx)
	if err != nil { return nil, err }
	defer client.Close()

	q := &storage.Query{
		Prefix: objectPrefix,
	}

	names := []string{}
	it := client.Bucket(bucketName).Objects(ctx, q)
	for {
		oa, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("GCS-Readdir [gs://%s]%s: %v", bucketName, q.Prefix, err)
		}
		name := oa.Name
		name = name[len(objectPrefix):]
		if len(name) > 4 && name[len(name)-4:] == ".gob" {
			name = name[:len(name)-4]
		}
		names = append(names, name)
	}

	return names, nil
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
