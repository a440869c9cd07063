package store

import (
	"context"
	"strings"

	"codego/internal/models"
	"codego/internal/notify"
	"codego/internal/validation"
)

// AddPost publishes a post as the signed-in user and prepends the server's copy.
func (s *Store) AddPost(ctx context.Context, in models.NewPost) (models.Post, error) {
	u, err := s.user()
	if err != nil {
		return models.Post{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := validation.ValidatePost(in); err != nil {
		notify.Send(ctx, s.notifier, notify.Error("Error", err.Error()))
		return models.Post{}, err
	}

	post, err := s.api.CreatePost(ctx, in, models.AuthorOf(u))
	if err != nil {
		return models.Post{}, s.fail(ctx, err, "add_post",
			notify.Error("Post creation failed", "Could not create post. Please try again."))
	}

	s.mu.Lock()
	s.posts = prepend(s.posts, post.Clone())
	s.mu.Unlock()

	s.logger.LogOperation(ctx, "add_post", map[string]interface{}{"post_id": post.ID})
	s.emit(Event{Kind: KindPost, Op: OpCreate, ID: post.ID})
	notify.Send(ctx, s.notifier, notify.Info("Post created", "Your post has been published successfully."))
	return post, nil
}

// UpdatePost sends a partial edit and replaces the cached post with the result.
func (s *Store) UpdatePost(ctx context.Context, id string, in models.PostUpdate) (models.Post, error) {
	post, err := s.api.UpdatePost(ctx, id, in)
	if err != nil {
		return models.Post{}, s.fail(ctx, err, "update_post", notify.Error("Failed to update post", ""))
	}
	s.replacePost(id, post)
	return post, nil
}

// DeletePost removes a post on the server and then from the cache.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	if _, err := s.user(); err != nil {
		return err
	}
	if err := s.api.DeletePost(ctx, id); err != nil {
		return s.fail(ctx, err, "delete_post",
			notify.Error("Deletion failed", "Could not delete post. Please try again."))
	}

	s.mu.Lock()
	s.posts = removeByID(s.posts, id, postID)
	s.mu.Unlock()

	s.logger.LogOperation(ctx, "delete_post", map[string]interface{}{"post_id": id})
	s.emit(Event{Kind: KindPost, Op: OpDelete, ID: id})
	notify.Send(ctx, s.notifier, notify.Info("Post deleted", "Your post has been removed."))
	return nil
}

// LikePost adds the signed-in user's like and adopts the server's post.
func (s *Store) LikePost(ctx context.Context, id string) (models.Post, error) {
	u, err := s.user()
	if err != nil {
		return models.Post{}, err
	}
	post, err := s.api.LikePost(ctx, id, u.ID)
	if err != nil {
		return models.Post{}, s.fail(ctx, err, "like_post",
			notify.Error("Like failed", "Could not like post. Please try again."))
	}
	s.replacePost(id, post)
	return post, nil
}

// UnlikePost removes the signed-in user's like and adopts the server's post.
func (s *Store) UnlikePost(ctx context.Context, id string) (models.Post, error) {
	u, err := s.user()
	if err != nil {
		return models.Post{}, err
	}
	post, err := s.api.UnlikePost(ctx, id, u.ID)
	if err != nil {
		return models.Post{}, s.fail(ctx, err, "unlike_post",
			notify.Error("Unlike failed", "Could not unlike post. Please try again."))
	}
	s.replacePost(id, post)
	return post, nil
}

// AddComment posts a comment and replaces only the comments of the cached post.
// Blank content is ignored without a call.
func (s *Store) AddComment(ctx context.Context, id, content string) ([]models.Comment, error) {
	u, err := s.user()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("comment is empty")
	}

	comments, err := s.api.AddComment(ctx, id, models.AuthorOf(u), content)
	if err != nil {
		return nil, s.fail(ctx, err, "add_comment",
			notify.Error("Comment failed", "Could not add comment. Please try again."))
	}

	s.mu.Lock()
	if i := indexOf(s.posts, id, postID); i >= 0 {
		s.posts[i].Comments = append([]models.Comment(nil), comments...)
	}
	s.mu.Unlock()

	s.emit(Event{Kind: KindPost, Op: OpUpdate, ID: id})
	notify.Send(ctx, s.notifier, notify.Info("Comment added", "Your comment has been posted."))
	return comments, nil
}

func (s *Store) replacePost(id string, post models.Post) {
	s.mu.Lock()
	replaceByID(s.posts, id, post.Clone(), postID)
	s.mu.Unlock()
	s.emit(Event{Kind: KindPost, Op: OpUpdate, ID: id})
}
