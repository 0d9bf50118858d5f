package common

const (
	// CfgConfigPath sets the directory searched for the config file.
	CfgConfigPath = "config.path"

	// CfgLogLevels sets the log level, per module. E.g. "*:info,hid:debug"
	// runs every module at info except the HID transport.
	CfgLogLevels = "log.levels"

	// CfgLogPrintSelfID determines whether to print the process ID in logs
	// (useful when several instances run against different devices).
	CfgLogPrintSelfID = "log.printSelfID"
)
