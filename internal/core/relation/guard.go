// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package relation

import (
	"fmt"

	"github.com/taibuivan/quill/internal/platform/apperr"
)

// Guard refuses to delete a target that still has back-references.
//
// Categories and tags never cascade into blogs; the author must detach the
// blogs first.
func Guard(kind Kind, backRefs []string) error {
	if len(backRefs) == 0 {
		return nil
	}
	return apperr.PreconditionFailed(fmt.Sprintf(
		"You must remove all the associated blogs before deleting this %s", kind))
}
