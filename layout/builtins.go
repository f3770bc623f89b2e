// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"reflect"
	"time"

	"github.com/open2b/scriggo/builtin"
	"github.com/open2b/scriggo/native"
)

// builtins are the builtins available to every Scriggo layout.
var builtins = native.Declarations{
	// crypto
	"sha1":   builtin.Sha1,
	"sha256": builtin.Sha256,

	// encoding
	"base64":        builtin.Base64,
	"hex":           builtin.Hex,
	"marshalJSON":   builtin.MarshalJSON,
	"md5":           builtin.Md5,
	"unmarshalJSON": builtin.UnmarshalJSON,

	// html
	"htmlEscape": builtin.HtmlEscape,

	// math
	"abs": builtin.Abs,
	"max": builtin.Max,
	"min": builtin.Min,

	// net
	"queryEscape": builtin.QueryEscape,

	// sort
	"reverse": builtin.Reverse,
	"sort":    builtin.Sort,

	// strconv
	"formatFloat": builtin.FormatFloat,
	"formatInt":   builtin.FormatInt,

	// strings
	"abbreviate": builtin.Abbreviate,
	"capitalize": builtin.Capitalize,
	"hasPrefix":  builtin.HasPrefix,
	"hasSuffix":  builtin.HasSuffix,
	"index":      builtin.Index,
	"join":       builtin.Join,
	"replace":    builtin.Replace,
	"replaceAll": builtin.ReplaceAll,
	"split":      builtin.Split,
	"sprint":     builtin.Sprint,
	"sprintf":    builtin.Sprintf,
	"toKebab":    builtin.ToKebab,
	"toLower":    builtin.ToLower,
	"toUpper":    builtin.ToUpper,
	"trim":       builtin.Trim,
	"trimPrefix": builtin.TrimPrefix,
	"trimSuffix": builtin.TrimSuffix,

	// time
	"Time":       reflect.TypeOf(time.Time{}),
	"formatDate": formatDate,
	"now":        builtin.Now,

	// layouts
	"renderLayout": renderLayout,
}

// formatDate formats t with the given Go layout. The zero time is formatted
// as the empty string.
func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
