// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package admincli implements pollsctl, the administrator command line.

Questions, choices and accounts are managed here rather than through the
web site. Every command opens the database named by --database-url (or
DATABASE_URL), creates the schema if needed and closes it on exit.

	pollsctl migrate
	pollsctl question add --text "Tabs or spaces?" --publish-at now
	pollsctl question list
	pollsctl choice add <question-id> Tabs
	pollsctl user add alice --password secret
*/
package admincli
