package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"alcyxob/fit-platform/internal/domain"
	"alcyxob/fit-platform/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStorage keeps object metadata in memory and hands out fake URLs.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]storage.ObjectInfo
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]storage.ObjectInfo)}
}

func (f *fakeStorage) put(key, contentType string, size int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = storage.ObjectInfo{Size: size, ContentType: contentType}
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/put/" + key, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/get/" + key, nil
}

func (f *fakeStorage) StatObject(_ context.Context, key string) (*storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &info, nil
}

func (f *fakeStorage) DeleteObjects(_ context.Context, prefix string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			delete(f.objects, k)
			n++
		}
	}
	return n, nil
}

func TestMediaUploadFlow(t *testing.T) {
	env := newTestEnv(t)
	files := newFakeStorage()
	svc := NewMediaService(env.repos.Courses, env.repos.Uploads, files, time.Minute, nil)
	ctx := context.Background()
	courseID := env.addCourse(t, env.trainer, true, 10)

	_, err := svc.RequestUploadURL(ctx, env.trainer, courseID, "intro.mp4", "application/zip")
	wantErr(t, err, ErrValidation)
	_, err = svc.RequestUploadURL(ctx, env.user, courseID, "intro.mp4", "video/mp4")
	wantErr(t, err, ErrCapabilityDenied)
	other := env.addUser(t, "rival", domain.RoleTrainer)
	_, err = svc.RequestUploadURL(ctx, other, courseID, "intro.mp4", "video/mp4")
	wantErr(t, err, ErrCourseAccessDenied)

	ticket, err := svc.RequestUploadURL(ctx, env.trainer, courseID, "Intro.MP4", "video/mp4")
	if err != nil {
		t.Fatalf("RequestUploadURL: %v", err)
	}
	if !strings.HasPrefix(ticket.ObjectKey, "courses/"+courseID.Hex()+"/") || !strings.HasSuffix(ticket.ObjectKey, ".mp4") {
		t.Fatalf("object key = %q", ticket.ObjectKey)
	}

	_, err = svc.ConfirmUpload(ctx, env.trainer, courseID, UploadConfirmation{ObjectKey: ticket.ObjectKey})
	wantErr(t, err, ErrObjectNotUploaded)

	_, err = svc.ConfirmUpload(ctx, env.trainer, courseID, UploadConfirmation{ObjectKey: "courses/" + primitive.NewObjectID().Hex() + "/x.mp4"})
	wantErr(t, err, ErrValidation)

	files.put(ticket.ObjectKey, "video/mp4", 2048)
	upload, err := svc.ConfirmUpload(ctx, env.trainer, courseID, UploadConfirmation{ObjectKey: ticket.ObjectKey, FileName: "Intro.MP4"})
	if err != nil {
		t.Fatalf("ConfirmUpload: %v", err)
	}
	if upload.Size != 2048 || upload.ContentType != "video/mp4" || upload.FileName != "Intro.MP4" {
		t.Errorf("upload = %+v", upload)
	}
	_, err = svc.ConfirmUpload(ctx, env.trainer, courseID, UploadConfirmation{ObjectKey: ticket.ObjectKey})
	wantErr(t, err, ErrUploadExists)

	// owner and enrolled users may download, others may not
	if _, err := svc.DownloadURL(ctx, env.trainer, courseID, upload.ID); err != nil {
		t.Fatalf("owner download: %v", err)
	}
	_, err = svc.DownloadURL(ctx, env.user, courseID, upload.ID)
	wantErr(t, err, ErrUploadAccessDenied)

	courses := NewCourseService(env.repos.Courses, env.repos.Users, svc, nil)
	if err := courses.Enroll(ctx, env.user, courseID); err != nil {
		t.Fatal(err)
	}
	url, err := svc.DownloadURL(ctx, env.user, courseID, upload.ID)
	if err != nil {
		t.Fatalf("enrolled download: %v", err)
	}
	if url != "https://storage.test/get/"+ticket.ObjectKey {
		t.Errorf("url = %q", url)
	}
	_, err = svc.DownloadURL(ctx, env.user, courseID, primitive.NewObjectID())
	wantErr(t, err, ErrUploadNotFound)

	if err := courses.DeleteCourse(ctx, env.trainer, courseID); err != nil {
		t.Fatalf("DeleteCourse: %v", err)
	}
	if len(files.objects) != 0 {
		t.Errorf("objects left after purge: %v", files.objects)
	}
	left, err := env.repos.Uploads.ListByCourseID(ctx, courseID)
	if err != nil || len(left) != 0 {
		t.Errorf("upload records left: %d, %v", len(left), err)
	}
}

func TestMediaDisabled(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMediaService(env.repos.Courses, env.repos.Uploads, nil, 0, nil)
	ctx := context.Background()
	courseID := env.addCourse(t, env.trainer, true, 10)

	_, err := svc.RequestUploadURL(ctx, env.trainer, courseID, "a.png", "image/png")
	wantErr(t, err, ErrMediaDisabled)
	if err := svc.PurgeCourse(ctx, courseID); err != nil {
		t.Fatalf("PurgeCourse without storage: %v", err)
	}
}
