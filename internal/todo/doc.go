// Package todo provides the data model and HTTP client for a todo backend.
//
// The backend exposes a small REST contract rooted at /todos. The client in
// this package wraps every route behind a single method that performs
// exactly one round trip and returns either a value or a classified *Error.
// Nothing is retried and nothing is cached; callers decide what to do with
// a failure.
//
// # Routes
//
//	GET    /todos                     -> []Todo
//	GET    /todos/{id}                -> Todo
//	POST   /todos                     -> Todo   (body: {title, description})
//	PATCH  /todos/{id}                -> Todo   (body: partial {title?, description?})
//	PATCH  /todos/change-status/{id}  -> Todo   (empty body, completion flag flipped)
//	DELETE /todos/{id}
//	DELETE /todos?ids=1,2,3
//
// # Usage Example
//
//	client := todo.NewClient("http://localhost:3000")
//
//	created, err := client.Create(ctx, todo.NewDraft("Buy milk", ""))
//	if err != nil {
//	    fmt.Println(todo.ShortMessage(err))
//	    return
//	}
//
//	toggled, err := client.ToggleStatus(ctx, created.ID)
//
// # Error Handling
//
// All failures are *Error values carrying an ErrorType:
//   - ErrTypeTransport: network failure, timeout or unexpected status
//   - ErrTypeNotFound: the backend has no todo with the requested id
//   - ErrTypeValidation: the payload was rejected (or caught before dispatch)
//   - ErrTypeParse: the backend answered with a body that is not valid JSON
//
// Use IsTransportError, IsNotFoundError, IsValidationError and IsParseError
// to branch on the category.
package todo
