package irc

// IRC replies.
const (
	rplWelcome  = "001" // :Welcome message
	rplIsupport = "005" // 1*13<TOKEN[=value]> :are supported by this server

	rplTryagain = "263" // <command> :Please wait a while and try again.

	rplEndofwho   = "315" // <name> :End of WHO list
	rplWhoreply   = "352" // <channel> <user> <host> <server> <nick> "H"/"G" ["*"] [("@"/"+")] :<hop count> <nick>
	rplNamreply   = "353" // <=/*/@> <channel> :1*(@/ /+user)
	rplEndofnames = "366" // <channel> :End of names list
	rplEndofmotd  = "376" // :End of MOTD command

	errNomotd        = "422" // :MOTD file missing
	errNicknameinuse = "433" // <nick> :Nickname in use

	rplLogon  = "600" // <nick> <user> <host> <signon> :logged online
	rplLogoff = "601" // <nick> <user> <host> <lastnickchange> :logged offline
	rplNowon  = "604" // <nick> <user> <host> <lastnickchange> :is online
	rplNowoff = "605" // <nick> <user> <host> <lastnickchange> :is offline

	rplMononline  = "730" // :target[!user@host][,target[!user@host]]*
	rplMonoffline = "731" // :target[,target2]*
)
