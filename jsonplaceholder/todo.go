// Package jsonplaceholder reads todo items from the public
// jsonplaceholder.typicode.com API.
package jsonplaceholder

import (
	"context"
	"strconv"

	"github.com/adamwoolhether/netcall/client"
)

// Host is the API host every request targets.
const Host = "jsonplaceholder.typicode.com"

// Todo is a single todo item. The API may omit any field.
type Todo struct {
	UserID    *int    `json:"userId,omitempty"`
	ID        *int    `json:"id,omitempty"`
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// todoRequest fetches one todo by id.
type todoRequest struct {
	client.Defaults
	id int
}

func (todoRequest) Host() string          { return Host }
func (todoRequest) Path() string          { return "/todos/{id}" }
func (todoRequest) Method() client.Method { return client.MethodGet }

func (r todoRequest) PathParams() map[string]string {
	return map[string]string{"id": strconv.Itoa(r.id)}
}

// todosRequest lists todos, optionally filtered by user.
type todosRequest struct {
	client.Defaults
	userID int
}

func (todosRequest) Host() string          { return Host }
func (todosRequest) Path() string          { return "/todos" }
func (todosRequest) Method() client.Method { return client.MethodGet }

func (r todosRequest) QueryParams() map[string]string {
	if r.userID == 0 {
		return nil
	}

	return map[string]string{"userId": strconv.Itoa(r.userID)}
}

// Repository fetches todos through a *client.Client. Results are passed
// through as received.
type Repository struct {
	c *client.Client
}

// New returns a Repository. A nil c uses client.Default.
func New(c *client.Client) *Repository {
	return &Repository{c: c}
}

// Todo fetches the todo with the given id.
func (r *Repository) Todo(ctx context.Context, id int) client.Result[Todo] {
	return client.Fetch[Todo](ctx, r.c, todoRequest{id: id})
}

// Todos fetches every todo.
func (r *Repository) Todos(ctx context.Context) client.Result[[]Todo] {
	return client.Fetch[[]Todo](ctx, r.c, todosRequest{})
}

// TodosByUser fetches the todos owned by userID.
func (r *Repository) TodosByUser(ctx context.Context, userID int) client.Result[[]Todo] {
	return client.Fetch[[]Todo](ctx, r.c, todosRequest{userID: userID})
}

// WatchTodo fetches the todo with the given id in the background. The
// channel yields one result and is closed.
func (r *Repository) WatchTodo(ctx context.Context, id int) <-chan client.Result[Todo] {
	return client.Observe[Todo](ctx, r.c, todoRequest{id: id})
}

// TodoAsync fetches the todo with the given id and hands the result to
// handler on the client's dispatcher.
func (r *Repository) TodoAsync(ctx context.Context, id int, handler func(client.Result[Todo])) {
	client.SendAsync(ctx, r.c, todoRequest{id: id}, handler)
}
