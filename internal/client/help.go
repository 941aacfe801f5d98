package client

// helpText lists every command the REPL understands. Printed locally,
// never sent to the server.
const helpText = `Usage : <COMMAND> --<argument> <value>

REGISTER     Register a new user (requires --username and --password).
LOGIN        Log an existing user in (requires --username and --password).
ADD          Add a password to the vault (requires --name and --password)
             (optional --overwrite, --encryptionPassword).
GET          Retrieve a password from the vault (requires --name)
             (optional --decryptionPassword).
REMOVE       Remove a password from the vault (requires --name).
DISCONNECT   Log the current user out.
PING         Check connectivity with the server.
GENERATE     Generate a password locally (optional --length, --special;
             with --store also requires --name, optional --overwrite,
             --encryptionPassword).
HELP         Print this message.
QUIT         Close the client.`
