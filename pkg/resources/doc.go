// Package resources implements a small content-management backend for
// learning resources: titled records with an optional file attachment,
// comma-separated tags and a set of owned images.
//
// Records are persisted through the Repository interface (in-memory and
// Postgres implementations under repo/) and binary blobs through the
// BlobStore interface (memory, filesystem and S3 implementations under
// storage/). The Service ties the two together and owns cascade-delete
// semantics: removing a resource removes its images and every associated
// blob.
//
// Construct a service with functional options:
//
//	svc, err := resources.New(
//	    resources.WithRepository(memory.New()),
//	    resources.WithBlobStore(memorystorage.New()),
//	)
package resources
