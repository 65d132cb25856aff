package spaces

import (
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Client talks to a DigitalOcean Spaces bucket through the S3 API.
type Client struct {
	s3     *s3.S3
	bucket string
}

// FromEnv builds a client from SPACES_* variables. Returns nil when the
// key pair is not configured, callers treat that as uploads disabled.
func FromEnv() *Client {
	key := os.Getenv("SPACES_KEY")
	secret := os.Getenv("SPACES_SECRET")
	if key == "" || secret == "" {
		return nil
	}
	client, err := New(key, secret,
		getenv("SPACES_ENDPOINT", "https://fra1.digitaloceanspaces.com"),
		getenv("SPACES_REGION", "fra1"),
		getenv("SPACES_BUCKET", "discord-bridge"),
	)
	if err != nil {
		return nil
	}
	return client
}

func New(key, secret, endpoint, region, bucket string) (*Client, error) {
	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(key, secret, ""),
		Endpoint:         aws.String(endpoint),
		S3ForcePathStyle: aws.Bool(false),
		Region:           aws.String(region),
	}
	newSession, err := session.NewSession(s3Config)
	if err != nil {
		return nil, err
	}
	return &Client{s3: s3.New(newSession), bucket: bucket}, nil
}

func (c *Client) UploadFile(localPath, key string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer file.Close()
	return c.Upload(file, key)
}

func (c *Client) Upload(body io.ReadSeeker, key string) error {
	object := s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
		ACL:    aws.String("private"),
	}
	_, err := c.s3.PutObject(&object)
	return err
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
