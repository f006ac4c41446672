package libgov

import (
	"github.com/asdine/storm"
)

// SaveUserConfigValue persists a user config value under key.
func (mgr *GovernanceManager) SaveUserConfigValue(key string, value interface{}) {
	err := mgr.db.Set(userConfigBucketName, key, value)
	if err != nil {
		log.Errorf("error setting config value for key: %s, error: %v", key, err)
	}
}

// ReadUserConfigValue reads a user config value into valueOut.
func (mgr *GovernanceManager) ReadUserConfigValue(key string, valueOut interface{}) error {
	err := mgr.db.Get(userConfigBucketName, key, valueOut)
	if err != nil && err != storm.ErrNotFound {
		log.Errorf("error reading config value for key: %s, error: %v", key, err)
	}
	return err
}

// DeleteUserConfigValueForKey removes the user config value under key.
func (mgr *GovernanceManager) DeleteUserConfigValueForKey(key string) {
	err := mgr.db.Delete(userConfigBucketName, key)
	if err != nil {
		log.Errorf("error deleting config value for key: %s, error: %v", key, err)
	}
}

func (mgr *GovernanceManager) SetBoolConfigValueForKey(key string, value bool) {
	mgr.SaveUserConfigValue(key, value)
}

func (mgr *GovernanceManager) SetStringConfigValueForKey(key, value string) {
	mgr.SaveUserConfigValue(key, value)
}

func (mgr *GovernanceManager) ReadBoolConfigValueForKey(key string, defaultValue bool) (valueOut bool) {
	if err := mgr.ReadUserConfigValue(key, &valueOut); err == storm.ErrNotFound {
		valueOut = defaultValue
	}
	return
}

func (mgr *GovernanceManager) ReadStringConfigValueForKey(key string, defaultValue string) (valueOut string) {
	if err := mgr.ReadUserConfigValue(key, &valueOut); err == storm.ErrNotFound {
		valueOut = defaultValue
	}
	return
}
