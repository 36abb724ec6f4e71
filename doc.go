// Package todos provides a per-user TODO item service with bearer token
// authentication and signed attachment uploads.
//
// Items are owned by the identity in the caller's JWT and are only visible to
// that owner. Attachments live in object storage; the service hands out
// short-lived upload URLs and stores the attachment's public URL on the item.
//
// # Key Components
//
//   - ItemService: item operations (list, get, create, update, delete, request upload)
//   - ItemRepo: interface for item persistence (DynamoDB, PostgreSQL, SQLite)
//   - AttachmentLocator: interface for public and presigned upload URLs (S3, stowry)
//   - IdentityVerifier: bearer token verification against a KeySet
//
// # Example Usage
//
//	service, err := todos.NewItemService(repo, locator, todos.ServiceConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	identity, err := verifier.Verify(ctx, r.Header.Get("Authorization"))
//	if err != nil {
//	    // ErrUnauthorized
//	}
//
//	item, err := service.Create(ctx, identity.Subject, todos.CreateItem{
//	    Name:    "buy milk",
//	    DueDate: "2024-01-01",
//	})
//
// See the http package for the REST API and the database package for the
// storage backends.
package todos
