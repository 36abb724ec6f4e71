// Package http exposes the item service as a JSON API.
//
// # Routes
//
//	GET    /todos                       list the caller's items
//	POST   /todos                       create an item
//	GET    /todos/{itemId}              fetch one item
//	PATCH  /todos/{itemId}              overwrite the mutable fields
//	DELETE /todos/{itemId}              delete an item
//	POST   /todos/{itemId}/attachment   issue a signed upload URL
//	GET    /filteredimage?image_url=    greyscale 256x256 JPEG of a remote image
//	GET    /healthz                     store health
//
// Every /todos route runs behind AuthMiddleware, which verifies the bearer
// token and stores the caller's todos.Identity in the request context. The
// token subject is the owner id passed to the Service.
//
// # Errors
//
// HandleError is the only place errors become status codes:
//
//	todos.ErrUnauthorized  401
//	todos.ErrNotFound      404
//	todos.ErrInvalidInput  400
//	anything else          500
//
// Error bodies have the form {"error":"<message>","code":"<code>"}.
//
// # Usage
//
//	handlerCfg := http.HandlerConfig{
//	    Verifier:    verifier,
//	    MaxBodySize: 1 << 20,
//	}
//	handler := http.NewHandler(&handlerCfg, service)
//	http.ListenAndServe(":8080", handler.Router())
package http
