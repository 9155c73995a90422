package objects

import "fmt"

// FileCommandNameOffset is the fixed byte offset of the file-name field
// within a Group70 Variation3 (File Command) object. The original
// implementation hardcodes this value without comment; this stack instead
// checks the decoded name-offset field against this constant on every parse
// rather than trusting it blindly, per the Open Question decision recorded in
// DESIGN.md.
const FileCommandNameOffset = 26

// Group70Var2 identifies a file by name for the Auth/Open/Read/Close task
// sequence.
type Group70Var2 struct {
	FileName string
}

// Group70Var3 is the File Command object: open/create semantics, the
// permissions mask, and the requested file name.
type Group70Var3 struct {
	FileNameOffset uint16
	FileNameSize   uint16
	Created        DNP3Time
	Permissions    uint16
	AuthKey        uint32
	FileSize       uint32
	OperationMode  uint16
	MaxBlockSize   uint16
	RequestID      uint16
	FileName       string
}

// Group70Var4 is the File Status object returned from an open/command
// response.
type Group70Var4 struct {
	FileHandle  uint32
	FileSize    uint32
	MaxBlockSize uint16
	RequestID   uint16
	Status      FileCommandStatus
}

// FileCommandStatus is the outcome code of a file command.
type FileCommandStatus uint8

const (
	FileStatusSuccess       FileCommandStatus = 0
	FileStatusPermissionDenied FileCommandStatus = 1
	FileStatusInvalidMode   FileCommandStatus = 2
	FileStatusNotFound      FileCommandStatus = 3
	FileStatusFileLocked    FileCommandStatus = 4
	FileStatusTooManyOpen   FileCommandStatus = 5
	FileStatusInvalidHandle FileCommandStatus = 6
	FileStatusUnsupportedOperation FileCommandStatus = 12
)

// Group70Var5 is a File Transport block: a handle, a block-index (with the
// high bit marking the last block), and the raw data.
type Group70Var5 struct {
	FileHandle uint32
	BlockIndex uint32 // bit 31 set means last block
	Data       []byte
}

// LastBlock reports whether this is the final block of the transfer.
func (g Group70Var5) LastBlock() bool { return g.BlockIndex&0x80000000 != 0 }

// Group70Var6 is the File Transport Status acknowledging a Var5 block.
type Group70Var6 struct {
	FileHandle uint32
	BlockIndex uint32
	Status     FileCommandStatus
}

// Group70Var7 is a File Descriptor entry returned from a directory read.
type Group70Var7 struct {
	FileNameOffset uint16
	FileNameSize   uint16
	FileType       uint8
	FileSize       uint32
	Created        DNP3Time
	Permissions    uint16
	RequestID      uint16
	FileName       string
}

// DecodeGroup70Var3 decodes a File Command object, validating that the
// name offset agrees with the fixed constant instead of assuming it.
func DecodeGroup70Var3(c *Cursor) (Group70Var3, error) {
	var g Group70Var3
	var err error
	if g.FileNameOffset, err = ReadFixed[uint16](c); err != nil {
		return g, err
	}
	if g.FileNameOffset != FileCommandNameOffset {
		return g, &ObjectParseError{Where: "g70v3.fileNameOffset", Offset: c.Pos(),
			Err: fmt.Errorf("expected offset %d, got %d", FileCommandNameOffset, g.FileNameOffset)}
	}
	if g.FileNameSize, err = ReadFixed[uint16](c); err != nil {
		return g, err
	}
	createdRaw, err := c.ReadBytes(6)
	if err != nil {
		return g, err
	}
	copy(g.Created[:], createdRaw)
	if g.Permissions, err = ReadFixed[uint16](c); err != nil {
		return g, err
	}
	if g.AuthKey, err = ReadFixed[uint32](c); err != nil {
		return g, err
	}
	if g.FileSize, err = ReadFixed[uint32](c); err != nil {
		return g, err
	}
	if g.OperationMode, err = ReadFixed[uint16](c); err != nil {
		return g, err
	}
	if g.MaxBlockSize, err = ReadFixed[uint16](c); err != nil {
		return g, err
	}
	if g.RequestID, err = ReadFixed[uint16](c); err != nil {
		return g, err
	}
	nameBytes, err := c.ReadBytes(int(g.FileNameSize))
	if err != nil {
		return g, err
	}
	g.FileName = string(nameBytes)
	return g, nil
}
