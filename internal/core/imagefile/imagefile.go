// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package imagefile manages uploaded images and their metadata documents.

The binary lives in the object store under ObjectKey; the document records
its dimensions, credit and every blog, category or author that uses it.
ReferencedDocs holds those users as "kind:id" references so the image can
clear each one's imageFile field when it is deleted.
*/
package imagefile

import "time"

// Supported content types. Anything else is rejected at upload.
const (
	TypeJPEG = "image/jpeg"
	TypePNG  = "image/png"
)

// Credit attributes an image to its author and source.
type Credit struct {
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url"`
	SourceName string `json:"source_name"`
	SourceURL  string `json:"source_url"`
}

// ImageFile is the metadata document of one stored image.
type ImageFile struct {
	ID             string    `json:"id"`
	FileName       string    `json:"file_name"`
	FileType       string    `json:"file_type"`
	Size           int64     `json:"size"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	ObjectKey      string    `json:"-"`
	Credit         Credit    `json:"credit"`
	ReferencedDocs []string  `json:"referenced_docs"`
	UploadedAt     time.Time `json:"upload_date"`
}

// Upload is an image received from a client, fully buffered.
type Upload struct {
	FileName string
	Data     []byte
	Credit   Credit
}

const (
	FieldImage            = "image"
	FieldCreditAuthorName = "credit_author_name"
	FieldCreditAuthorURL  = "credit_author_url"
	FieldCreditSourceName = "credit_source_name"
	FieldCreditSourceURL  = "credit_source_url"
)

// Choice is an image given either as a new upload or as the ID of an existing image.
type Choice struct {
	ExistingID *string
	Upload     *Upload
}

// Empty reports whether neither form was given.
func (choice Choice) Empty() bool {
	return choice.ExistingID == nil && choice.Upload == nil
}
