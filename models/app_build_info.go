// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strings"

// notAvailable stands in for build metadata the linker did not inject.
const notAvailable = "N/A"

// AppBuildInfo is the build metadata injected with -ldflags.
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

// BuildField is one labelled line of build metadata.
type BuildField struct {
	Name  string
	Value string
}

// NewAppBuildInfo constructs [AppBuildInfo]. Blank values are reported as N/A.
func NewAppBuildInfo(version, date, commit string) AppBuildInfo {
	return AppBuildInfo{
		version: orNotAvailable(version),
		date:    orNotAvailable(date),
		commit:  orNotAvailable(commit),
	}
}

// Version returns the release version, or N/A.
func (a AppBuildInfo) Version() string { return orNotAvailable(a.version) }

// Fields lists the metadata in display order.
func (a AppBuildInfo) Fields() []BuildField {
	return []BuildField{
		{Name: "Build version", Value: orNotAvailable(a.version)},
		{Name: "Build date", Value: orNotAvailable(a.date)},
		{Name: "Build commit", Value: orNotAvailable(a.commit)},
	}
}

func orNotAvailable(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return notAvailable
	}
	return v
}
