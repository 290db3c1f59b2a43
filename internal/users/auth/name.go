// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FallbackDisplayName is used when neither names nor an email local-part exist.
const FallbackDisplayName = "User"

// localPartSeparators become spaces when a name is derived from an email.
var localPartSeparators = strings.NewReplacer(".", " ", "_", " ", "-", " ")

/*
DeriveDisplayName picks the name shown in the dashboard header.

Order:
 1. "first last", trimmed, when either is present.
 2. The email local-part with '.', '_' and '-' as word breaks, each word title-cased.
 3. [FallbackDisplayName].
*/
func DeriveDisplayName(firstName, lastName, email string) string {
	if full := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName)); full != "" {
		return full
	}

	localPart, _, _ := strings.Cut(email, "@")
	words := strings.Fields(localPartSeparators.Replace(localPart))
	if len(words) == 0 {
		return FallbackDisplayName
	}

	// A Caser is stateful, so each call gets its own.
	return cases.Title(language.Und, cases.NoLower).String(strings.Join(words, " "))
}
