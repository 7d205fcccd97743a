package mocks

//go:generate mockery --name RoomStore --srcpkg github.com/hearth-im/hearth/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
