// Package server implements the reference REST backend for todos.
//
// It exists so the client can be developed and tested end to end without
// the original backend. Routes:
//
//	GET    /todos                     list, newest first
//	POST   /todos                     create {title, description}
//	DELETE /todos?ids=1,2,3           bulk delete
//	GET    /todos/{id}                fetch one
//	PATCH  /todos/{id}                partial update
//	DELETE /todos/{id}                delete one
//	PATCH  /todos/change-status/{id}  flip isCompleted
//
// Bodies are JSON using the field names of todo.Todo. Errors are JSON
// objects of the form {"message": "..."}.
//
// Bulk delete removes whichever of the listed ids exist and answers 200
// even when some were already gone; clients cannot tell partial from full
// success.
//
// When Config.Advertise is set the server registers itself over mDNS as
// _todos._tcp so `todos scan` can find it.
package server
