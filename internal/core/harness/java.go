package harness

import (
	"fmt"
	"regexp"
)

// Only Main may be public in the generated compilation unit.
var javaPublicSolution = regexp.MustCompile(`(?m)^(\s*)public\s+((?:final\s+)?class\s+Solution\b)`)

var javaResolver = braceResolver{
	language:    "java",
	classHeader: regexp.MustCompile(`\bclass\s+Solution\b[^{;]*\{`),
	method:      regexp.MustCompile(`([A-Za-z_]\w*)\s*\([^()]*\)\s*(?:throws\s+[\w.,\s]+)?\{`),
}

// The method is located by reflection at run time; arguments are converted
// to the declared generic parameter types with Jackson.
const javaHarness = `import java.util.*;
import java.util.stream.*;
import java.io.*;
import java.lang.reflect.*;
import com.fasterxml.jackson.databind.JavaType;
import com.fasterxml.jackson.databind.JsonNode;
import com.fasterxml.jackson.databind.ObjectMapper;

{{.Code}}

public class Main {
    public static void main(String[] argv) {
        PrintStream stdout = System.out;
        ByteArrayOutputStream console = new ByteArrayOutputStream();
        System.setOut(new PrintStream(console, true));
        ObjectMapper mapper = new ObjectMapper();
        Object value;
        try {
            JsonNode params = mapper.readTree({{.Args}});
            Method target = null;
            for (Method m : Solution.class.getDeclaredMethods()) {
                if (m.getName().equals({{.Entry}}) && m.getParameterCount() == params.size()) {
                    target = m;
                    break;
                }
            }
            if (target == null) {
                throw new NoSuchMethodException({{.Entry}} + " taking " + params.size() + " arguments");
            }
            target.setAccessible(true);
            Type[] types = target.getGenericParameterTypes();
            Object[] args = new Object[types.length];
            for (int i = 0; i < types.length; i++) {
                JavaType type = mapper.getTypeFactory().constructType(types[i]);
                args[i] = mapper.convertValue(params.get(i), type);
            }
            Object instance = null;
            if (!Modifier.isStatic(target.getModifiers())) {
                Constructor<Solution> ctor = Solution.class.getDeclaredConstructor();
                ctor.setAccessible(true);
                instance = ctor.newInstance();
            }
            Object result = target.invoke(instance, args);
            if (target.getReturnType() == void.class) {
                value = args.length > 0 ? args[0] : null;
            } else {
                value = result;
            }
        } catch (InvocationTargetException e) {
            fail(stdout, e.getCause() != null ? e.getCause() : e);
            return;
        } catch (Exception e) {
            fail(stdout, e);
            return;
        }
        System.setOut(stdout);
        String encoded;
        try {
            encoded = mapper.writeValueAsString(value);
        } catch (Exception e) {
            fail(stdout, e);
            return;
        }
        stdout.println(encoded);
        String captured = console.toString();
        if (!captured.isEmpty()) {
            stdout.println({{.Delimiter}});
            for (String line : captured.split("\\r?\\n")) {
                stdout.println(line);
            }
        }
        stdout.flush();
    }

    private static void fail(PrintStream stdout, Throwable e) {
        System.setOut(stdout);
        System.err.println("Execution error: " + e);
        System.exit(1);
    }
}
`

func newJava(spec languageSpec) (LanguageProfile, error) {
	return newProfile(spec, javaResolver, javaHarness, func(code string, input *Input, entry EntryPoint) (interface{}, error) {
		if entry.Receiver != solutionClass || !identifier.MatchString(entry.Name) {
			return nil, fmt.Errorf("invalid entry point %q", entry.Name)
		}
		return struct {
			Code, Args, Entry, Delimiter string
		}{
			Code:      javaPublicSolution.ReplaceAllString(code, "${1}${2}"),
			Args:      javaString(input.ArgsJSON()),
			Entry:     javaString(entry.Name),
			Delimiter: javaString(delimiter),
		}, nil
	})
}
