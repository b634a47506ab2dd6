// Package cli is the Chatkeeper command-line front end.
//
// Commands:
//
//	create              export the local database into an encrypted archive
//	restore [-f FILE]   import an archive; defaults to the last one created
//	status              show when the last backup and restore happened
//
// Passwords are read from the terminal without echo.
package cli
