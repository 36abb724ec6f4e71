// Package attachment provides AttachmentLocator implementations that map
// attachment ids to object storage URLs.
//
// Two backends are available:
//
//   - S3Locator signs PUT requests with the AWS SDK and builds virtual-hosted
//     public URLs of the form https://<bucket>.s3.<region>.amazonaws.com/<id>.
//   - StowryLocator targets a stowry object server using its native
//     presigned URL scheme.
//
// Neither backend checks whether an upload actually happened; an item may
// reference an object that was never written.
//
// Usage:
//
//	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-1"))
//	if err != nil {
//	    return err
//	}
//	locator, err := attachment.NewS3LocatorFromConfig(awsCfg, attachment.S3Config{
//	    Bucket: "todo-attachments",
//	    Region: "us-east-1",
//	})
//
//	url, err := locator.PresignUpload(ctx, attachmentID)
package attachment
