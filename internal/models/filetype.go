package models

import (
	"path/filepath"
	"strings"
)

// FileType is the viewer category a document is routed to. Classification is
// driven purely by filename suffix, case-insensitive.
type FileType string

const (
	TypePDF        FileType = "PDF"
	TypeWord       FileType = "WORD"
	TypeExcel      FileType = "EXCEL"
	TypeImage      FileType = "IMAGE"
	TypePowerPoint FileType = "POWERPOINT"
	TypeVideo      FileType = "VIDEO"
	TypeAudio      FileType = "AUDIO"
	TypeUnknown    FileType = "UNKNOWN"
)

// TypeOf classifies a display name by its extension. Names without an
// extension classify as UNKNOWN.
func TypeOf(name string) FileType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "pdf":
		return TypePDF
	case "doc", "docx", "rtf", "sfdt":
		return TypeWord
	case "xlsx", "xls", "csv":
		return TypeExcel
	case "jpg", "jpeg", "png":
		return TypeImage
	case "pptx", "ppt", "potx":
		return TypePowerPoint
	case "mp4", "webm", "ogg":
		return TypeVideo
	case "mp3", "wav":
		return TypeAudio
	default:
		return TypeUnknown
	}
}
