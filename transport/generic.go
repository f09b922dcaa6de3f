//nolint:ireturn
package transport

import "context"

func GetJSON[T any](ctx context.Context, c *Client, path string, opts ...CallOption) (T, error) {
	var result T
	err := c.Get(ctx, path, &result, opts...)

	return result, err
}

func PostJSON[T any](ctx context.Context, c *Client, path string, resource any, opts ...CallOption) (T, error) {
	var result T
	err := c.Post(ctx, path, resource, &result, opts...)

	return result, err
}

func DeleteJSON[T any](ctx context.Context, c *Client, path string, opts ...CallOption) (T, error) {
	var result T
	err := c.Delete(ctx, path, &result, opts...)

	return result, err
}

func DoJSON[T any](ctx context.Context, c *Client, method, path string, resource any, opts ...CallOption) (T, error) {
	var result T
	err := c.Do(ctx, method, path, resource, &result, opts...)

	return result, err
}
