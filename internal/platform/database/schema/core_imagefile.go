// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreImageFileTable represents the 'core.imagefile' table
type CoreImageFileTable struct {
	Table            string
	ID               string
	FileName         string
	FileType         string
	Size             string
	Width            string
	Height           string
	ObjectKey        string
	CreditAuthorName string
	CreditAuthorURL  string
	CreditSourceName string
	CreditSourceURL  string
	ReferencedDocs   string
	UploadedAt       string
}

// CoreImageFile is the schema definition for core.imagefile.
//
// ReferencedDocs stores tagged references encoded as "kind:id" text.
var CoreImageFile = CoreImageFileTable{
	Table:            "core.imagefile",
	ID:               "id",
	FileName:         "filename",
	FileType:         "filetype",
	Size:             "size",
	Width:            "width",
	Height:           "height",
	ObjectKey:        "objectkey",
	CreditAuthorName: "creditauthorname",
	CreditAuthorURL:  "creditauthorurl",
	CreditSourceName: "creditsourcename",
	CreditSourceURL:  "creditsourceurl",
	ReferencedDocs:   "referenceddocs",
	UploadedAt:       "uploadedat",
}

// Columns lists every column in scan order.
func (c CoreImageFileTable) Columns() []string {
	return []string{c.ID, c.FileName, c.FileType, c.Size, c.Width, c.Height, c.ObjectKey, c.CreditAuthorName, c.CreditAuthorURL, c.CreditSourceName, c.CreditSourceURL, c.ReferencedDocs, c.UploadedAt}
}
