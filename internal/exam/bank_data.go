package exam

// 内置题库数据
// MCQ：5 个主题 × 5 道 hard 题；编程题：javascript / python × easy / medium。
// 题面沿用运营侧英文题目。

var builtinMCQ = map[string]map[string][]Question{
	"javascript": {
		"hard": {
			{
				Text:          "What is the output of: console.log([] + [] + 'foo'.split(''))?",
				Options:       []string{"foo", "f,o,o", "['f','o','o']", "error"},
				CorrectAnswer: 1,
				Explanation:   "[] + [] results in empty string, then adding array ['f','o','o'] converts it to string 'f,o,o'.",
			},
			{
				Text:          "What is the event loop in JavaScript?",
				Options:       []string{"A loop that runs events", "A mechanism that handles asynchronous operations", "A function that creates events", "A method to prevent memory leaks"},
				CorrectAnswer: 1,
				Explanation:   "The event loop is a mechanism that handles asynchronous callbacks by managing the call stack and callback queue.",
			},
			{
				Text:          "What is the difference between call(), apply(), and bind()?",
				Options:       []string{"They are the same", "call/apply invoke immediately, bind returns new function", "Only bind works with objects", "call is deprecated"},
				CorrectAnswer: 1,
				Explanation:   "call() and apply() invoke the function immediately with different argument syntax, while bind() returns a new function with bound 'this'.",
			},
			{
				Text:          "What is a WeakMap in JavaScript?",
				Options:       []string{"A slow Map", "A Map with weak object references allowing garbage collection", "A Map without methods", "An encrypted Map"},
				CorrectAnswer: 1,
				Explanation:   "WeakMap holds weak references to objects, allowing them to be garbage collected if no other references exist.",
			},
			{
				Text:          "What is the output of: typeof typeof 1?",
				Options:       []string{"number", "string", "undefined", "object"},
				CorrectAnswer: 1,
				Explanation:   "typeof 1 returns 'number', then typeof 'number' returns 'string' since typeof always returns a string.",
			},
		},
	},
	"react": {
		"hard": {
			{
				Text:          "What is the purpose of React.memo()?",
				Options:       []string{"Store data", "Prevent unnecessary re-renders of functional components", "Manage memory", "Create memoized functions"},
				CorrectAnswer: 1,
				Explanation:   "React.memo() is a higher-order component that prevents re-renders if props haven't changed, similar to PureComponent.",
			},
			{
				Text:          "What is the difference between useEffect and useLayoutEffect?",
				Options:       []string{"No difference", "useLayoutEffect runs synchronously after DOM mutations", "useEffect is faster", "useLayoutEffect is deprecated"},
				CorrectAnswer: 1,
				Explanation:   "useLayoutEffect fires synchronously after DOM mutations but before browser paint, useful for DOM measurements.",
			},
			{
				Text:          "What is prop drilling and how can you avoid it?",
				Options:       []string{"Drilling holes in components", "Passing props through many levels; use Context or state management", "A debugging technique", "A performance optimization"},
				CorrectAnswer: 1,
				Explanation:   "Prop drilling is passing props through intermediate components. Solutions include Context API, Redux, or component composition.",
			},
			{
				Text:          "What is the purpose of the key prop in React lists?",
				Options:       []string{"For styling", "Help React identify which items changed for efficient re-rendering", "For encryption", "Required by law"},
				CorrectAnswer: 1,
				Explanation:   "Keys help React identify which items have changed, been added, or removed, enabling efficient updates to the DOM.",
			},
			{
				Text:          "What is React Fiber?",
				Options:       []string{"A library", "React's new reconciliation algorithm for incremental rendering", "A framework", "A styling solution"},
				CorrectAnswer: 1,
				Explanation:   "React Fiber is the reimplementation of React's core algorithm, enabling incremental rendering and better priority handling.",
			},
		},
	},
	"nodejs": {
		"hard": {
			{
				Text:          "What is the difference between process.nextTick() and setImmediate()?",
				Options:       []string{"They are the same", "nextTick executes before I/O, setImmediate after", "setImmediate is faster", "nextTick is deprecated"},
				CorrectAnswer: 1,
				Explanation:   "process.nextTick() callbacks execute before any I/O operations, while setImmediate() callbacks execute after I/O events.",
			},
			{
				Text:          "What is the purpose of the cluster module in Node.js?",
				Options:       []string{"Group data", "Enable multi-core processing by spawning child processes", "Manage databases", "Handle file operations"},
				CorrectAnswer: 1,
				Explanation:   "The cluster module allows Node.js to spawn multiple child processes sharing the same server port, utilizing multi-core systems.",
			},
			{
				Text:          "What is event emitter pattern in Node.js?",
				Options:       []string{"A bug", "A pattern where objects emit named events that trigger registered listeners", "A security feature", "A deprecated pattern"},
				CorrectAnswer: 1,
				Explanation:   "Event Emitter is a pattern where objects emit named events, allowing other code to listen and respond to these events.",
			},
			{
				Text:          "What is middleware in Express.js?",
				Options:       []string{"A database", "Functions that have access to req, res, and next() in the request-response cycle", "A server", "A framework"},
				CorrectAnswer: 1,
				Explanation:   "Middleware functions have access to request, response objects and next() function, executing during the request-response cycle.",
			},
			{
				Text:          "What is the purpose of streams in Node.js?",
				Options:       []string{"Watch videos", "Handle reading/writing data piece by piece for memory efficiency", "Store data", "Compress files"},
				CorrectAnswer: 1,
				Explanation:   "Streams allow processing data piece by piece without loading everything into memory, essential for large files.",
			},
		},
	},
	"database": {
		"hard": {
			{
				Text:          "What is database normalization?",
				Options:       []string{"Making data normal", "Organizing data to reduce redundancy and dependency", "Encrypting data", "Backing up data"},
				CorrectAnswer: 1,
				Explanation:   "Normalization is the process of organizing database tables to reduce data redundancy and improve data integrity.",
			},
			{
				Text:          "What is the difference between INNER JOIN and LEFT JOIN?",
				Options:       []string{"No difference", "INNER returns matching rows, LEFT returns all left table rows", "INNER is faster", "LEFT is deprecated"},
				CorrectAnswer: 1,
				Explanation:   "INNER JOIN returns only matching rows from both tables, while LEFT JOIN returns all rows from left table with matching right table rows.",
			},
			{
				Text:          "What is an index in a database?",
				Options:       []string{"A table", "A data structure that improves query speed at cost of write performance", "A backup", "A key"},
				CorrectAnswer: 1,
				Explanation:   "An index is a data structure that improves the speed of data retrieval but requires additional storage and slows down writes.",
			},
			{
				Text:          "What is ACID in databases?",
				Options:       []string{"A chemical", "Atomicity, Consistency, Isolation, Durability", "A query language", "A backup method"},
				CorrectAnswer: 1,
				Explanation:   "ACID stands for Atomicity, Consistency, Isolation, Durability - properties that guarantee database transaction reliability.",
			},
			{
				Text:          "What is the difference between SQL and NoSQL databases?",
				Options:       []string{"No difference", "SQL is relational with schema, NoSQL is flexible/schemaless", "SQL is newer", "NoSQL is slower"},
				CorrectAnswer: 1,
				Explanation:   "SQL databases are relational with fixed schemas, while NoSQL databases offer flexible, schema-less data models for unstructured data.",
			},
		},
	},
	"advanced": {
		"hard": {
			{
				Text:          "What is the difference between HTTP and HTTPS?",
				Options:       []string{"No difference", "HTTPS uses SSL/TLS encryption for secure communication", "HTTP is faster", "HTTPS is deprecated"},
				CorrectAnswer: 1,
				Explanation:   "HTTPS (HTTP Secure) uses SSL/TLS protocols to encrypt data transmission, providing security for sensitive information.",
			},
			{
				Text:          "What is REST API?",
				Options:       []string{"A database", "Architectural style using HTTP methods for stateless client-server communication", "A server", "A programming language"},
				CorrectAnswer: 1,
				Explanation:   "REST (Representational State Transfer) is an architectural style using standard HTTP methods for stateless communication.",
			},
			{
				Text:          "What is JWT (JSON Web Token)?",
				Options:       []string{"A database", "A compact, URL-safe token for securely transmitting information", "A framework", "A programming language"},
				CorrectAnswer: 1,
				Explanation:   "JWT is a compact, URL-safe token that encodes claims to be transferred between parties, commonly used for authentication.",
			},
			{
				Text:          "What is the difference between authentication and authorization?",
				Options:       []string{"Same thing", "Authentication verifies identity, authorization verifies permissions", "Authentication is newer", "Authorization is optional"},
				CorrectAnswer: 1,
				Explanation:   "Authentication verifies who you are (identity), while authorization determines what you can access (permissions).",
			},
			{
				Text:          "What is a microservices architecture?",
				Options:       []string{"Small services", "Architectural style where app is collection of loosely coupled services", "A framework", "A database design"},
				CorrectAnswer: 1,
				Explanation:   "Microservices architecture structures an application as a collection of loosely coupled, independently deployable services.",
			},
		},
	},
}

var builtinCoding = map[string]map[string][]CodingProblem{
	"javascript": {
		"easy": {
			{
				ID:               1,
				Title:            "Sum of Two Numbers",
				Description:      "Write a function that takes two numbers as parameters and returns their sum.",
				RequiredKeywords: []string{"function", "return"},
				Language:         "javascript",
				Difficulty:       "easy",
				TimeLimitSeconds: 600,
			},
			{
				ID:               2,
				Title:            "Check Even or Odd",
				Description:      "Write a function that checks if a number is even or odd.",
				RequiredKeywords: []string{"function", "if", "return"},
				Language:         "javascript",
				Difficulty:       "easy",
				TimeLimitSeconds: 600,
			},
		},
		"medium": {
			{
				ID:               1,
				Title:            "Array Reversal",
				Description:      "Write a function that reverses an array without using the built-in reverse() method.",
				RequiredKeywords: []string{"function", "for", "return"},
				Language:         "javascript",
				Difficulty:       "medium",
				TimeLimitSeconds: 900,
			},
			{
				ID:               2,
				Title:            "Find Maximum in Array",
				Description:      "Write a function to find the maximum number in an array.",
				RequiredKeywords: []string{"function", "for", "return"},
				Language:         "javascript",
				Difficulty:       "medium",
				TimeLimitSeconds: 900,
			},
		},
	},
	"python": {
		"easy": {
			{
				ID:               1,
				Title:            "Sum of Two Numbers",
				Description:      "Write a function that takes two numbers as parameters and returns their sum.",
				RequiredKeywords: []string{"def", "return"},
				Language:         "python",
				Difficulty:       "easy",
				TimeLimitSeconds: 600,
			},
		},
		"medium": {
			{
				ID:               1,
				Title:            "List Reversal",
				Description:      "Write a function that reverses a list without using the built-in reverse() method.",
				RequiredKeywords: []string{"def", "for", "return"},
				Language:         "python",
				Difficulty:       "medium",
				TimeLimitSeconds: 900,
			},
		},
	},
}
