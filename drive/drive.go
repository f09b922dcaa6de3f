// Package drive is a statically bound client for the Drive v2 file and
// comment surface.
package drive

import (
	"context"
	"net/url"

	"github.com/andyle182810/gapiclient/transport"
)

const basePath = "/drive/v2"

type Service struct {
	Files    *FilesService
	Comments *CommentsService
}

func NewService(t *transport.Client) *Service {
	return &Service{
		Files:    &FilesService{transport: t},
		Comments: &CommentsService{transport: t},
	}
}

type File struct {
	Kind  string `json:"kind,omitempty"`
	ID    string `json:"id,omitempty"`
	ETag  string `json:"etag,omitempty"`
	Title string `json:"title,omitempty"`
}

type FileList struct {
	Kind  string `json:"kind,omitempty"`
	ETag  string `json:"etag,omitempty"`
	Items []File `json:"items,omitempty"`
}

type Comment struct {
	Kind      string `json:"kind,omitempty"`
	CommentID string `json:"commentId,omitempty"`
	Content   string `json:"content,omitempty"`
}

type FilesService struct {
	transport *transport.Client
}

// List fetches the file listing. Use transport.WithQuery("q", ...) to filter.
func (s *FilesService) List(ctx context.Context, opts ...transport.CallOption) (*FileList, error) {
	var list FileList
	if err := s.transport.Get(ctx, basePath+"/files", &list, opts...); err != nil {
		return nil, err
	}

	return &list, nil
}

func (s *FilesService) Delete(ctx context.Context, fileID string, opts ...transport.CallOption) error {
	return s.transport.Delete(ctx, basePath+"/files/"+url.PathEscape(fileID), nil, opts...)
}

type CommentsService struct {
	transport *transport.Client
}

func (s *CommentsService) Insert(
	ctx context.Context,
	fileID string,
	comment *Comment,
	opts ...transport.CallOption,
) (*Comment, error) {
	var inserted Comment

	path := basePath + "/files/" + url.PathEscape(fileID) + "/comments"
	if err := s.transport.Post(ctx, path, comment, &inserted, opts...); err != nil {
		return nil, err
	}

	return &inserted, nil
}
