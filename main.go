package VellumDB

import (
	"github.com/vellumdb/VellumDB/core"
	"github.com/vellumdb/VellumDB/db"
	"github.com/vellumdb/VellumDB/ps"
)

type Instance struct {
	Persistence *ps.Persistence
}

func Open(persistence *ps.Persistence) *Instance {
	return &Instance{
		Persistence: persistence,
	}
}

func (instance *Instance) Session(identity core.Identity) *db.Session {
	return db.NewSession(instance.Persistence, identity)
}
