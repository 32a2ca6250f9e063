package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	RemoveFileError

	// Logging errors
	CreateLogFileError

	// CLI errors
	FlagParseError
	MissingFlagError

	// Input/output errors
	InputFileAccessError
	OutputWriteError
	FailFileWriteError

	// Taxdump errors
	TaxdumpDownloadError
	TaxdumpExtractError
	TaxdumpParseError

	// Backend errors
	UnknownBackendError
	BackendEmptyError
	DBConnectionError
	DBNotConnectedError
	DBSchemaError
	DBLoadError
	DBQueryError

	// Conversion errors
	UnresolvedNamesError
)
