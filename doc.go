// Package mediastore brokers access to media files held in an external object
// store without ever streaming the bytes itself.
//
// A caller authenticates with a bearer token, declares the file it wants to
// upload, and receives a short-lived capability URL that lets it PUT exactly
// one object with exactly one content type. After uploading it confirms, and
// the broker flips the file's record from uploading to completed. Downloads
// work the same way in reverse.
//
// # Key Components
//
//   - UploadBroker: orchestrates request-upload, confirm-upload, request-download and listing
//   - MetadataStore: owner-scoped persistence of FileRecords (PostgreSQL, SQLite)
//   - URLIssuer: signs capability URLs (S3 via aws-sdk-go-v2, MinIO via minio-go)
//   - AuthGate: turns an Authorization header into a Principal via an IdentityProvider
//   - Validate: the upload policy (size, extension allow-list, file name)
//
// # Example Usage
//
//	broker, err := mediastore.NewUploadBroker(store, issuer, mediastore.BrokerConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ticket, err := broker.RequestUpload(ctx, principal.OwnerID, mediastore.UploadRequest{
//	    File: mediastore.FileInfo{Name: "photo.jpg", Size: 2048, ContentType: "image/jpeg"},
//	})
//
//	// client PUTs the bytes to ticket.UploadURL, then:
//	res, err := broker.ConfirmUpload(ctx, principal.OwnerID, ticket.FileID)
//
// See the http package for the JSON API and the database packages for the
// metadata backends.
package mediastore
