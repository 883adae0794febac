package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaUpload stores metadata about a file a trainer uploaded for a course.
// The actual file resides in S3.
type MediaUpload struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID    primitive.ObjectID `bson:"courseId" json:"courseId"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"` // internal use
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"` // bytes
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
